package main

import (
	"fmt"

	"github.com/Smithk0/job-fr/internal/config"
	"github.com/Smithk0/job-fr/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the careers site",
	Long: `Start the HTTP server for the public job listings, the application form
and the access-code protected admin panel. Requires SESSION_SECRET.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	sessCfg, err := config.NewSessionConfig()
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		API:            client,
		SessionSecret:  sessCfg.Secret,
		SessionTTL:     sessCfg.TTL(),
		CookieSecure:   cfg.CookieSecure,
		Revalidate:     cfg.Revalidate(),
		CompanyLogoURL: cfg.DefaultCompanyLogoURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	return srv.Start()
}
