package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/markdown"
	"github.com/Smithk0/job-fr/internal/observability"
	"github.com/Smithk0/job-fr/internal/schemas"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List, show and manage job postings",
}

var (
	jobsJSON bool
	jobsRaw  bool
	jobsFile string
	jobsYes  bool
	jobForm  admin.JobForm
)

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all job postings",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsGet,
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a new job",
	Long: `Post a new job, either from a JSON file matching the job schema (--file) or
from flags. List flags take comma separated values. Requires 'jobfr login'.`,
	Args: cobra.NoArgs,
	RunE: runJobsCreate,
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a job posting",
	Long: `Update a job posting from a JSON file holding only the fields to change.
Requires 'jobfr login'.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsUpdate,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

func init() {
	jobsListCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print JSON instead of a table")
	jobsGetCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print JSON")
	jobsGetCmd.Flags().BoolVar(&jobsRaw, "raw", false, "Print the description as Markdown source")

	f := jobsCreateCmd.Flags()
	f.StringVarP(&jobsFile, "file", "f", "", "Path to a job JSON file")
	f.StringVar(&jobForm.Title, "title", "", "Job title")
	f.StringVar(&jobForm.Company, "company", "", "Company name")
	f.StringVar(&jobForm.CompanyLogo, "logo", "", "Company logo URL (default from config)")
	f.StringVar(&jobForm.Description, "description", "", "Description (Markdown)")
	f.StringVar(&jobForm.Department, "department", "", "Department")
	f.StringVar(&jobForm.Location, "location", "", "Location")
	f.StringVar(&jobForm.Type, "type", "", "Job type: "+typeNames())
	f.StringVar(&jobForm.Requirements, "requirements", "", "Requirements, comma separated")
	f.StringVar(&jobForm.Responsibilities, "responsibilities", "", "Responsibilities, comma separated")
	f.StringVar(&jobForm.Salary, "salary", "", "Salary")
	f.StringVar(&jobForm.Benefits, "benefits", "", "Benefits, comma separated")
	f.StringVar(&jobForm.MapURL, "map-url", "", "Embedded map URL")
	jobsCreateCmd.MarkFlagsMutuallyExclusive("file", "title")

	jobsUpdateCmd.Flags().StringVarP(&jobsFile, "file", "f", "", "Path to a JSON file with the fields to change")
	_ = jobsUpdateCmd.MarkFlagRequired("file")

	jobsDeleteCmd.Flags().BoolVarP(&jobsYes, "yes", "y", false, "Do not ask for confirmation")

	jobsCmd.AddCommand(jobsListCmd, jobsGetCmd, jobsCreateCmd, jobsUpdateCmd, jobsDeleteCmd)
	rootCmd.AddCommand(jobsCmd)
}

func typeNames() string {
	names := make([]string, 0, len(types.JobTypes()))
	for _, t := range types.JobTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	jobs, err := client.ListJobs(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jobsJSON {
		return writeJSON(out, jobs)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, admin.EmptyMessage)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "COMPANY", "DEPARTMENT", "LOCATION", "TYPE")
	for _, job := range jobs {
		t.Row(job.ID, job.Title, job.Company, job.Department, job.Location, string(job.Type))
	}
	fmt.Fprintln(out, t.String())
	return nil
}

func runJobsGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	job, err := client.GetJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jobsJSON {
		return writeJSON(out, job)
	}

	description := job.Description
	if !jobsRaw {
		if description, err = markdown.Text(job.Description); err != nil {
			return err
		}
	}

	observability.NewPrinter(out).PrintJob(job, description)
	return nil
}

func runJobsCreate(cmd *cobra.Command, _ []string) error {
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

	var job *types.Job
	if jobsFile != "" {
		data, err := schemas.ValidateFile(schemas.Job, jobsFile)
		if err != nil {
			return err
		}
		var in types.JobInput
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("failed to decode %s: %w", jobsFile, err)
		}
		if in.CompanyLogo == "" {
			in.CompanyLogo = cfg.DefaultCompanyLogoURL
		}
		if err := in.Validate(); err != nil {
			return err
		}
		cred, err := credential(gate)
		if err != nil {
			return err
		}
		if job, err = client.CreateJob(cmd.Context(), in, cred); err != nil {
			return err
		}
	} else {
		if _, err := credential(gate); err != nil {
			return err
		}
		if job, err = admin.Create(cmd.Context(), client, gate, jobForm, cfg.DefaultCompanyLogoURL); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Job posted successfully. (%s %s)\n", job.ID, job.Title)
	return nil
}

func runJobsUpdate(cmd *cobra.Command, args []string) error {
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

	data, err := schemas.ValidateFile(schemas.JobUpdate, jobsFile)
	if err != nil {
		return err
	}
	var upd types.JobUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		return fmt.Errorf("failed to decode %s: %w", jobsFile, err)
	}
	if err := upd.Validate(); err != nil {
		return err
	}

	cred, err := credential(gate)
	if err != nil {
		return err
	}
	job, err := client.UpdateJob(cmd.Context(), args[0], upd, cred)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s: %s\n", job.ID, job.Title, strings.Join(upd.Changed(), ", "))
	return nil
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
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
	if !jobsYes {
		ok, err := confirm(cmd, fmt.Sprintf("Delete job %s? This action cannot be undone.", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := client.DeleteJob(cmd.Context(), id, cred); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %s\n", id)
	return nil
}
