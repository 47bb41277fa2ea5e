package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// List prints the user's study sessions; "list all" includes archived ones.
func (a *App) List(ctx context.Context, args []string) error {
	activeOnly := true
	if len(args) > 0 && args[0] == "all" {
		activeOnly = false
	}

	sessions, err := a.sessions.List(ctx, activeOnly)
	if err != nil {
		fmt.Println("Could not load sessions:", err.Error())
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No study sessions yet. Start one with 'chat'.")
		return nil
	}

	for _, s := range sessions {
		state := ""
		if !s.IsActive {
			state = " [archived]"
		}
		fmt.Printf("%4d  %s%s  (%s, %d messages)\n", s.ID, s.Title, state, s.Subject, s.MessageCount)
	}
	return nil
}

// Rename prompts for a new title for the given session.
func (a *App) Rename(ctx context.Context, args []string) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: rename <id>")
		return err
	}

	title, err := getSimpleText(a.reader, "New title", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		fmt.Println("Title unchanged.")
		return nil
	}

	updated, err := a.sessions.Rename(ctx, sessionID, title)
	if err != nil {
		fmt.Println("Rename failed:", err.Error())
		return err
	}
	fmt.Printf("Session %d is now %q.\n", updated.ID, updated.Title)
	return nil
}

// Archive marks a session inactive so it drops out of the default listing.
func (a *App) Archive(ctx context.Context, args []string) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: archive <id>")
		return err
	}

	if _, err := a.sessions.Archive(ctx, sessionID); err != nil {
		fmt.Println("Archive failed:", err.Error())
		return err
	}
	fmt.Printf("Session %d archived. See it with 'list all'.\n", sessionID)
	return nil
}

// Delete asks the server to retire the session. The server deactivates it
// and keeps the transcript, so 'list all' still shows it.
func (a *App) Delete(ctx context.Context, args []string) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: delete <id>")
		return err
	}

	if err := a.sessions.Delete(ctx, sessionID); err != nil {
		fmt.Println("Delete failed:", err.Error())
		return err
	}
	fmt.Printf("Session %d deleted.\n", sessionID)
	return nil
}
