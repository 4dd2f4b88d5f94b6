package main

import (
	"fmt"
	"os"

	"github.com/Smithk0/job-fr/internal/observability"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/spf13/cobra"
)

var (
	applyName        string
	applyEmail       string
	applyCoverLetter string
	applyResume      string
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Submit an application for a job",
	Long: `Submit an application with a resume (PDF, DOC or DOCX, at most 5 MiB) and a
cover letter. The cover letter may be given as @path to read it from a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyName, "name", "", "Applicant name")
	applyCmd.Flags().StringVar(&applyEmail, "email", "", "Applicant email")
	applyCmd.Flags().StringVar(&applyCoverLetter, "cover-letter", "", "Cover letter text, or @path")
	applyCmd.Flags().StringVar(&applyResume, "resume", "", "Path to the resume file")
	_ = applyCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	coverLetter := applyCoverLetter
	if len(coverLetter) > 1 && coverLetter[0] == '@' {
		data, err := os.ReadFile(coverLetter[1:])
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		coverLetter = string(data)
	}

	f, err := os.Open(applyResume)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	defer func() { _ = f.Close() }()

	resume, err := types.ReadResume(f.Name(), f)
	if err != nil {
		return err
	}

	app := types.Application{
		JobID:          args[0],
		ApplicantName:  applyName,
		ApplicantEmail: applyEmail,
		CoverLetter:    coverLetter,
		Resume:         resume,
	}
	if err := app.ValidateForm(); err != nil {
		return err
	}

	ack, err := client.SubmitApplication(cmd.Context(), args[0], app)
	if err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}

	message := "Application submitted successfully!"
	if ack != nil && ack.Message != "" {
		message = ack.Message
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSubmission(&app, message)
	return nil
}
