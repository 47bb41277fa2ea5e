package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an email or username and a password and signs in. On a
// rejected credential the cache is left untouched and the user can retry.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Email or username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Password")
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Println("Incorrect email/username or password.")
		default:
			fmt.Println("Login failed:", err.Error())
		}
		return err
	}

	fmt.Printf("Signed in as %s.\n", user.Username)
	return nil
}

// Register prompts for the new account's details and signs in with the
// credential the server issues for it.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Password (min 8 characters)")
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: password,
	})
	if err != nil {
		fmt.Println("Registration failed:", err.Error())
		return err
	}

	fmt.Printf("Account created. Signed in as %s.\n", user.Username)
	return nil
}

// Logout clears the cached identity.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err.Error())
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
