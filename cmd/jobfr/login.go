package main

import (
	"fmt"

	"github.com/Smithk0/job-fr/internal/session"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [access-code]",
	Short: "Verify an admin access code and remember it",
	Long: `Verify an admin access code with the backend and store it in the session
file. The code is read from standard input when not given as an argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var (
	logoutYes bool
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access code",
	RunE:  runLogout,
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
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

	var code string
	if len(args) == 1 {
		code = args[0]
	} else {
		fmt.Fprint(cmd.OutOrStdout(), "Access code: ")
		if code, err = readLine(cmd); err != nil {
			return err
		}
	}

	msg, err := session.Login(cmd.Context(), client, gate, code)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Access granted"
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gate, err := newGate(cfg)
	if err != nil {
		return err
	}

	if !logoutYes {
		ok, err := confirm(cmd, "Are you sure you want to logout?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := gate.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
