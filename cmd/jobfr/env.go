package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/config"
	"github.com/Smithk0/job-fr/internal/session"
	"github.com/spf13/cobra"
)

// loadConfig resolves the effective configuration from the config file, the
// environment and the --api-url flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// logOutput receives the client's verbose log. The client adds its own
// [backend] prefix.
var logOutput io.Writer = os.Stderr

func newClient(cfg *config.Config) (*backend.Client, error) {
	opts := backend.DefaultOptions()
	if cfg.Verbose {
		opts.Logger = log.New(logOutput, "", log.LstdFlags)
	}
	return backend.New(cfg.APIBaseURL, opts)
}

// newGate opens the session saved by "jobfr login". New sessions last
// SESSION_TTL_HOURS.
func newGate(cfg *config.Config) (*session.Gate, error) {
	ttl, err := config.SessionTTL()
	if err != nil {
		return nil, err
	}
	store, err := session.NewFileStore(cfg.CredentialFile)
	if err != nil {
		return nil, err
	}
	return session.NewGate(store, ttl), nil
}

// credential returns the stored access code, or an error pointing at login.
func credential(gate *session.Gate) (string, error) {
	cred, err := gate.Credential()
	if err != nil {
		return "", fmt.Errorf("%w (run 'jobfr login')", err)
	}
	return cred, nil
}

// confirm asks a yes/no question on the command's input. Anything other than
// y or yes is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	answer, err := readLine(cmd)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
