package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/service"
)

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	agentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, store, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		title, _ := cmd.Flags().GetString("title")
		isOutputTerminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return runChat(cmd.Context(), svc, title, os.Stdin, cmd.OutOrStdout(), isOutputTerminal)
	},
}

func runChat(ctx context.Context, svc *service.Service, title string, in io.Reader, out io.Writer, styled bool) error {
	conv, err := svc.CreateConversation(ctx, service.CreateConversationRequest{Title: title})
	if err != nil {
		return err
	}
	name := svc.AgentStatus().Agent

	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("conversation %d with %s, /quit to leave", conv.ID, name)))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		ex, err := svc.HandleUserMessage(ctx, service.SendMessageRequest{
			ConversationID: conv.ID,
			Role:           assistant.RoleUser,
			Content:        line,
		})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			continue
		}

		reply := ex.AIMessage.Content
		if styled {
			if rendered, err := glamour.Render(reply, "dark"); err == nil {
				reply = rendered
			}
		}
		fmt.Fprintln(out, agentStyle.Render(name+">"))
		fmt.Fprintln(out, strings.TrimRight(reply, "\n"))
		conv = ex.Conversation
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}

	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("bye, saved as %q", conv.Title)))
	return nil
}

func init() {
	chatCmd.Flags().String("title", "New Chat", "Title of the new conversation")
}
