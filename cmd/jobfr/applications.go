package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Review applications received for a job",
}

var (
	appsJSON bool
	appsYes  bool
)

var applicationsListCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List the applications for a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplicationsList,
}

var applicationsDeleteCmd = &cobra.Command{
	Use:   "delete <application-id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplicationsDelete,
}

func init() {
	applicationsListCmd.Flags().BoolVar(&appsJSON, "json", false, "Print JSON instead of a table")
	applicationsDeleteCmd.Flags().BoolVarP(&appsYes, "yes", "y", false, "Do not ask for confirmation")
	applicationsCmd.AddCommand(applicationsListCmd, applicationsDeleteCmd)
	rootCmd.AddCommand(applicationsCmd)
}

func runApplicationsList(cmd *cobra.Command, args []string) error {
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
	cred, err := credential(gate)
	if err != nil {
		return err
	}

	apps, err := client.ListApplications(cmd.Context(), args[0], cred)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if appsJSON {
		return writeJSON(out, apps)
	}
	if len(apps) == 0 {
		fmt.Fprintln(out, "No applications yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "EMAIL", "RESUME")
	for _, app := range apps {
		t.Row(app.ID, app.ApplicantName, app.ApplicantEmail, app.Resume)
	}
	fmt.Fprintln(out, t.String())
	return nil
}

func runApplicationsDelete(cmd *cobra.Command, args []string) error {
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
	cred, err := credential(gate)
	if err != nil {
		return err
	}

	id := args[0]
	if !appsYes {
		ok, err := confirm(cmd, fmt.Sprintf("Delete application %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := client.DeleteApplication(cmd.Context(), id, cred); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted application %s\n", id)
	return nil
}
