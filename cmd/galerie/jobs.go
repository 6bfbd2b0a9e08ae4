package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage the transcode queue",
}

var jobsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List jobs, newest first",
	Long: `List jobs in the queue with per-status totals.

Examples:
  galerie jobs list                  # Recent jobs
  galerie jobs list --status=failed  # Only failed jobs
  galerie jobs list --json | jq '.jobs[].id'`,
	Args: cobra.NoArgs,
	RunE: runJobsList,
}

var jobsRetryCmd = &cobra.Command{
	Use:   "retry <job-id>",
	Short: "Requeue a job with a fresh retry budget",
	Long: `Reset a job to pending with zero attempts and put its media back to
processing. A running server picks it up on its next drain pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsRetry,
}

var (
	jobsStatus string
	jobsLimit  int
)

func init() {
	jobsListCmd.Flags().StringVar(&jobsStatus, "status", "", "Filter by status (pending, processing, completed, failed)")
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 50, "Number of jobs to list")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsRetryCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	overview, err := a.media.Jobs(cmd.Context(), domain.JobStatus(jobsStatus), jobsLimit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if jsonOutput {
		return printJSON(os.Stdout, overview)
	}
	renderJobs(os.Stdout, overview, time.Now())
	return nil
}

func runJobsRetry(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	job, err := a.media.RetryJob(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("retry job %s: %w", args[0], err)
	}
	if jsonOutput {
		return printJSON(os.Stdout, job)
	}
	fmt.Fprintf(os.Stdout, "%s job %s requeued for media %s\n", color.GreenString("✓"), job.ID, job.MediaID)
	return nil
}

func renderJobs(w io.Writer, overview *service.JobsOverview, now time.Time) {
	if len(overview.Jobs) == 0 {
		fmt.Fprintf(w, "%s No jobs found\n", color.CyanString("→"))
	} else {
		table := newTable(w, "ID", "Media", "Status", "Attempts", "Created", "Error")
		for _, j := range overview.Jobs {
			table.Append(
				j.ID,
				j.MediaID,
				statusColor(j.Status),
				fmt.Sprintf("%d/%d", j.Attempts, j.MaxAttempts),
				humanize.RelTime(j.CreatedAt, now, "ago", "from now"),
				truncate(j.Error, 40),
			)
		}
		table.Render()
	}

	s := overview.Stats
	fmt.Fprintf(w, "\npending %d  processing %d  completed %d  failed %d\n",
		s.Pending, s.Processing, s.Completed, s.Failed)
}

func statusColor(s domain.JobStatus) string {
	switch s {
	case domain.JobStatusCompleted:
		return color.GreenString(string(s))
	case domain.JobStatusFailed:
		return color.RedString(string(s))
	case domain.JobStatusProcessing:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}
