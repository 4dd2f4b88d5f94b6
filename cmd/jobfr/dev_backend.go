package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Smithk0/job-fr/internal/backend/backendtest"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/spf13/cobra"
)

var (
	devPort       int
	devAccessCode string
	devSeed       bool
)

var devBackendCmd = &cobra.Command{
	Use:   "dev-backend",
	Short: "Run an in-memory jobs API for local development",
	Long: `Serve an in-memory implementation of the jobs REST API under /api. Data is
lost when the process exits.`,
	RunE: runDevBackend,
}

func init() {
	devBackendCmd.Flags().IntVar(&devPort, "port", 5009, "Port to listen on")
	devBackendCmd.Flags().StringVar(&devAccessCode, "access-code", "letmein", "Admin access code accepted by the API")
	devBackendCmd.Flags().BoolVar(&devSeed, "seed", true, "Start with sample job postings")
	rootCmd.AddCommand(devBackendCmd)
}

func seedJobs() []types.Job {
	architect := backendtest.SampleJob("1", "Architect")
	architect.Department = "Design"
	architect.Location = "Dubai"

	concierge := backendtest.SampleJob("2", "Concierge")
	concierge.Department = "Hospitality"
	concierge.Type = types.PartTime

	return []types.Job{architect, concierge}
}

func runDevBackend(cmd *cobra.Command, _ []string) error {
	var jobs []types.Job
	if devSeed {
		jobs = seedJobs()
	}
	fake := backendtest.New(devAccessCode, jobs...)
	fake.SetLogger(log.New(os.Stderr, "", log.LstdFlags))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", devPort),
		Handler:           fake,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dev backend listening on http://localhost:%d/api (%d jobs)", devPort, len(jobs))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	log.Println("Shutting down dev backend...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
