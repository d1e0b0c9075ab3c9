package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"deepaclive/internal/ledger"
)

var statusColors = map[string]text.Colors{
	ledger.StatusCompleted: {text.FgGreen},
	ledger.StatusFailed:    {text.FgRed, text.Bold},
	ledger.StatusCancelled: {text.FgYellow},
	ledger.StatusRunning:   {text.FgBlue},
}

var stageTitle = cases.Title(language.English)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recorded runs and per-cycle progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.LedgerPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(out, "No runs recorded yet (ledger %s does not exist)\n", path)
				return nil
			}
			store, err := ledger.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			terminal := isTerminal(out)
			if runID != "" {
				units, err := store.Units(cmd.Context(), runID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderUnits(runID, units, terminal))
				return nil
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			summary, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderRuns(runs, terminal))
			if len(summary) > 0 {
				fmt.Fprintln(out, renderSummary(summary, terminal))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recent runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the units processed by one run")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func renderRuns(runs []ledger.Run, terminal bool) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if !run.FinishedAt.IsZero() {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			shortID(run.ID),
			stageTitle.String(run.Stage),
			colorStatus(run.Status, terminal),
			run.StartedAt.Local().Format(time.DateTime),
			duration,
			run.Error,
		})
	}
	return tableView{
		title:   "Runs",
		headers: []string{"Run", "Stage", "Status", "Started", "Duration", "Error"},
		rows:    rows,
	}.render(terminal)
}

func renderSummary(summary []ledger.CycleSummary, terminal bool) string {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{
			stageTitle.String(s.Stage),
			strconv.Itoa(s.Cycle),
			strconv.Itoa(s.Units),
			strconv.Itoa(s.Reads),
			strconv.Itoa(s.Accepted),
			strconv.Itoa(s.Rejected),
			strconv.Itoa(s.Skipped),
			s.LastSeen.Local().Format(time.DateTime),
		})
	}
	return tableView{
		title:   "Cycles",
		headers: []string{"Stage", "Cycle", "Units", "Reads", "Accepted", "Rejected", "Skipped", "Last"},
		numeric: []int{1, 2, 3, 4, 5, 6},
		rows:    rows,
	}.render(terminal)
}

func renderUnits(runID string, units []ledger.Unit, terminal bool) string {
	rows := make([][]string, 0, len(units))
	for _, u := range units {
		rows = append(rows, []string{
			stageTitle.String(u.Stage),
			strconv.Itoa(u.Cycle),
			u.Barcode,
			yesNo(u.Paired),
			strconv.Itoa(u.Reads),
			strconv.Itoa(u.Accepted),
			strconv.Itoa(u.Rejected),
			yesNo(u.Skipped),
		})
	}
	return tableView{
		title:   "Run " + shortID(runID),
		headers: []string{"Stage", "Cycle", "Barcode", "Paired", "Reads", "Accepted", "Rejected", "Skipped"},
		numeric: []int{1, 4, 5, 6},
		rows:    rows,
	}.render(terminal)
}

func colorStatus(status string, terminal bool) string {
	colors, ok := statusColors[status]
	if !terminal || !ok {
		return status
	}
	return colors.Sprint(status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
