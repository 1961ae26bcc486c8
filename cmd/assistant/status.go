package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/assistant/agent"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the agent identity and whether a model key is configured",
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

		status := svc.AgentStatus()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStatus(status))
		return nil
	},
}

func renderStatus(s agent.Status) string {
	color := lipgloss.Color("10")
	if !s.Connected {
		color = lipgloss.Color("9")
	}
	label := lipgloss.NewStyle().Bold(true).Width(14)

	rows := []string{
		label.Render("agent") + s.Agent,
		label.Render("model") + s.Model,
		label.Render("status") + lipgloss.NewStyle().Foreground(color).Render(s.Status),
		label.Render("capabilities") + strings.Join(s.Capabilities, ", "),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print the status as JSON")
}
