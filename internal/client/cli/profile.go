package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/studybuddy-app/studybuddy/internal/client/profile"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

// WhoAmI prints the cached identity without touching the network.
func (a *App) WhoAmI(ctx context.Context) error {
	record := a.cache.Current()
	if record == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	p := record.Profile
	fmt.Printf("%s <%s>\n", p.Username, p.Email)
	if p.FullName != "" {
		fmt.Println("Name:        ", p.FullName)
	}
	fmt.Println("Role:        ", p.Role)
	status := "active"
	if !p.IsActive {
		status = "inactive"
	}
	fmt.Println("Status:      ", status)
	fmt.Println("Member since:", p.CreatedAt.Format("Jan 2, 2006"))
	if p.LastLogin != nil {
		fmt.Println("Last login:  ", p.LastLogin.Format("Jan 2, 2006 15:04"))
	}
	return nil
}

// EditProfile walks the profile editor: every field is prompted with its
// current value, only the changed fields are sent, and the cache ends up
// holding the server's authoritative copy.
func (a *App) EditProfile(ctx context.Context) error {
	record := a.cache.Current()
	if record == nil {
		fmt.Println("Sign in first.")
		return nil
	}

	form := profile.FormFromProfile(record.Profile)

	var err error
	if form.Email, err = GetOptionalText(a.reader, "Email", form.Email, os.Stdout); err != nil {
		return err
	}
	if form.Username, err = GetOptionalText(a.reader, "Username", form.Username, os.Stdout); err != nil {
		return err
	}
	if form.FullName, err = GetOptionalText(a.reader, "Full name", form.FullName, os.Stdout); err != nil {
		return err
	}
	if form.Password, err = getPassword(os.Stdout, "New password (empty keeps current)"); err != nil {
		return err
	}

	updated, err := a.updater.Update(ctx, form)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			fmt.Println(err.Error())
		default:
			fmt.Println("Failed to update profile:", err.Error())
		}
		return err
	}

	fmt.Printf("Profile updated. Signed in as %s <%s>.\n", updated.Username, updated.Email)
	return nil
}
