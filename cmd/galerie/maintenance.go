package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bnema/galerie/internal/service"
	"github.com/spf13/cobra"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run one recovery and retention sweep, then exit",
	Long: `Requeue jobs stuck in processing, delete completed and failed jobs past
retention and remove orphaned transcode temp files.`,
	Args: cobra.NoArgs,
	RunE: runMaintenance,
}

func runMaintenance(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	report := a.maintenance.Sweep(cmd.Context())
	if jsonOutput {
		return printJSON(os.Stdout, report)
	}
	renderReport(os.Stdout, report)
	return nil
}

func renderReport(w io.Writer, r service.MaintenanceReport) {
	table := newTable(w, "Step", "Count")
	table.Append("recovered stuck jobs", fmt.Sprint(r.Recovered))
	table.Append("removed completed jobs", fmt.Sprint(r.CompletedRemoved))
	table.Append("removed failed jobs", fmt.Sprint(r.FailedRemoved))
	table.Append("removed temp files", fmt.Sprint(r.TempFilesRemoved))
	table.Append("pending jobs", fmt.Sprint(r.Pending))
	table.Render()
}
