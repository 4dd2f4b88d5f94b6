package main

import (
	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Open the interactive job dashboard",
	Long: `Open a terminal dashboard to list, update, delete and post jobs.
Requires 'jobfr login'.`,
	Args: cobra.NoArgs,
	RunE: runAdmin,
}

func init() {
	rootCmd.AddCommand(adminCmd)
}

func runAdmin(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	gate, err := newGate(cfg)
	if err != nil {
		return err
	}
	if _, err := credential(gate); err != nil {
		return err
	}

	return tui.Run(tui.Config{
		Dashboard:   admin.New(client, gate),
		Creator:     client,
		Credentials: gate,
		LogoURL:     cfg.DefaultCompanyLogoURL,
		Context:     cmd.Context(),
	}, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
}
