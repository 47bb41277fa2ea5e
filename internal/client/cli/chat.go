package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/studybuddy-app/studybuddy/internal/client/chat"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
)

var (
	userColor      = color.New(color.FgGreen)
	assistantColor = color.New(color.FgCyan)
	errorColor     = color.New(color.FgRed)
	metaColor      = color.New(color.FgHiBlack)
)

// Chat starts a brand-new conversation. The conversation stays unbound
// until the first successful exchange assigns it a server session id.
func (a *App) Chat(ctx context.Context) error {
	subject, err := getSimpleText(a.reader, "Subject (optional, e.g. math, history)", os.Stdout)
	if err != nil {
		return err
	}
	conv := chat.NewConversation("New Study Session", subject)
	return a.chatLoop(ctx, conv)
}

// Open reopens a stored session by id and continues it.
func (a *App) Open(ctx context.Context, args []string) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: open <id>")
		return err
	}

	conv, err := a.sessions.Open(ctx, sessionID)
	if err != nil {
		fmt.Println("Could not open session:", err.Error())
		return err
	}

	for _, msg := range conv.Messages() {
		printMessage(msg)
	}
	return a.chatLoop(ctx, conv)
}

// chatLoop runs the send/receive loop for one conversation. Every line the
// user types goes through the coordinator; a failed send keeps the text as
// the conversation draft, offered for resubmission on the next empty line.
func (a *App) chatLoop(ctx context.Context, conv *chat.Conversation) error {
	coord := chat.NewCoordinator(conv, a.client, a.log)

	fmt.Println("Ask me anything about your studies. '/back' returns to the main prompt.")

	for {
		prompt := "you> "
		if draft := conv.Draft(); draft != "" {
			prompt = fmt.Sprintf("you [Enter resends %q]> ", draft)
		}
		fmt.Print(prompt)

		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		text := strings.TrimSpace(line)
		if text == "" && conv.Draft() != "" {
			text = conv.Draft()
		}
		if text == "/back" {
			return nil
		}

		resp, err := coord.Submit(ctx, text)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrEmptyMessage):
				continue
			case errors.Is(err, chat.ErrBusy):
				errorColor.Println("Still waiting for the previous answer.")
			default:
				errorColor.Println("Failed to send message. Please try again.")
				metaColor.Printf("  (%s)\n", err.Error())
			}
			continue
		}

		printMessage(resp.AssistantMessage)
	}
}

func printMessage(msg models.Message) {
	switch msg.Role {
	case models.RoleUser:
		userColor.Printf("you: %s\n", msg.Content)
	default:
		assistantColor.Printf("ai:  %s\n", msg.Content)
		if msg.ResponseTime > 0 || msg.TokensUsed > 0 {
			metaColor.Printf("  (%.1fs, %d tokens)\n", float64(msg.ResponseTime)/1000, msg.TokensUsed)
		}
	}
}
