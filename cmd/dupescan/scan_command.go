package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"dupescan/internal/dupes"
)

func newScanCommand(cctx *commandContext) *cobra.Command {
	var workers int
	var exportPath string
	var jsonOut bool
	var dupesOnly bool

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Hash files and report duplicate groups",
		Long: `Scan hashes every regular file under the given files and directories with
MD5 and clusters files with identical content into numbered groups. Press
Ctrl-C to cancel; files already being hashed finish as cancelled, files not
yet started are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runHashJob(cmd, cctx, args, workers, !jsonOut)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, buildScanOutput(report))
			}

			out := cmd.OutOrStdout()
			headers, rows, aligns := buildResultRows(report, dupesOnly)
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
			}
			printScanSummary(cmd, report)

			if exportPath != "" {
				allHeaders, allRows, _ := buildResultRows(report, false)
				if err := os.WriteFile(exportPath, []byte(renderCSV(allHeaders, allRows)+"\n"), 0o644); err != nil {
					return fmt.Errorf("export results: %w", err)
				}
				fmt.Fprintf(out, "Exported results to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Hashing concurrency (0 selects the automatic default)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the full results table to a CSV file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON instead of a table")
	cmd.Flags().BoolVar(&dupesOnly, "dupes-only", false, "Only list files that belong to a duplicate group")
	return cmd
}

var resultHeaders = []string{"Path", "Size", "MD5", "Group", "Duration", "Status"}

var resultAligns = []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft}

// buildResultRows renders one row per collected path in first-seen order.
func buildResultRows(report *scanReport, dupesOnly bool) ([]string, [][]string, []columnAlignment) {
	labels := groupLabels(report.index)

	rows := make([][]string, 0, len(report.order))
	for _, path := range report.order {
		label := labels[path]
		if dupesOnly && label == "" {
			continue
		}

		result, ok := report.results[path]
		switch {
		case !ok:
			rows = append(rows, []string{path, "", "", "", "", "Pending"})
		case result.Outcome.Failed():
			rows = append(rows, []string{
				path,
				formatSize(result.Outcome.Size),
				"",
				"",
				"",
				"Error: " + result.Outcome.Err.Error(),
			})
		default:
			rows = append(rows, []string{
				path,
				formatSize(result.Outcome.Size),
				result.Outcome.Digest,
				label,
				formatDuration(result.Outcome.Duration),
				"Done",
			})
		}
	}
	return resultHeaders, rows, resultAligns
}

// groupLabels maps each path in a duplicate group to its display label.
// Singleton groups produce no entries.
func groupLabels(index *dupes.Index) map[string]string {
	labels := make(map[string]string)
	for _, group := range index.Snapshot() {
		if label := group.Label(); label != "" {
			for _, path := range group.Paths {
				labels[path] = label
			}
		}
	}
	return labels
}

func printScanSummary(cmd *cobra.Command, report *scanReport) {
	out := cmd.OutOrStdout()

	if report.cancelled {
		fmt.Fprintf(out, "Cancelled: %d of %d files hashed\n", report.hashed(), len(report.order))
	} else {
		fmt.Fprintf(out, "Hashed %d file(s)\n", report.hashed())
	}

	groups := duplicateGroups(report.index)
	if len(groups) == 0 {
		fmt.Fprintln(out, "No duplicates found")
		return
	}

	var reclaimable uint64
	for _, group := range groups {
		if result, ok := report.results[group.Paths[0]]; ok {
			reclaimable += result.Outcome.Size * uint64(len(group.Paths)-1)
		}
	}
	fmt.Fprintf(out, "%d duplicate group(s), %s reclaimable\n", len(groups), formatSize(reclaimable))
}

// duplicateGroups returns the groups with more than one member, ordered by ID.
func duplicateGroups(index *dupes.Index) []dupes.Group {
	var groups []dupes.Group
	for _, group := range index.Snapshot() {
		if len(group.Paths) > 1 {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

type fileOutput struct {
	Path            string  `json:"path"`
	SizeBytes       uint64  `json:"size_bytes"`
	MD5             string  `json:"md5,omitempty"`
	Group           int     `json:"group,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	Status          string  `json:"status"`
	Error           string  `json:"error,omitempty"`
}

type groupOutput struct {
	ID     int      `json:"id"`
	Digest string   `json:"md5"`
	Paths  []string `json:"paths"`
}

type scanOutput struct {
	Files     []fileOutput  `json:"files"`
	Groups    []groupOutput `json:"duplicate_groups"`
	Total     int           `json:"total"`
	Hashed    int           `json:"hashed"`
	Cancelled bool          `json:"cancelled"`
}

func buildScanOutput(report *scanReport) scanOutput {
	snapshot := report.index.Snapshot()

	groupFor := make(map[string]int)
	for _, group := range snapshot {
		if len(group.Paths) > 1 {
			for _, path := range group.Paths {
				groupFor[path] = group.ID
			}
		}
	}

	output := scanOutput{
		Total:     len(report.order),
		Hashed:    report.hashed(),
		Cancelled: report.cancelled,
	}
	for _, path := range report.order {
		result, ok := report.results[path]
		switch {
		case !ok:
			output.Files = append(output.Files, fileOutput{Path: path, Status: "pending"})
		case result.Outcome.Failed():
			output.Files = append(output.Files, fileOutput{
				Path:            path,
				SizeBytes:       result.Outcome.Size,
				DurationSeconds: result.Outcome.Duration.Seconds(),
				Status:          "error",
				Error:           result.Outcome.Err.Error(),
			})
		default:
			output.Files = append(output.Files, fileOutput{
				Path:            path,
				SizeBytes:       result.Outcome.Size,
				MD5:             result.Outcome.Digest,
				Group:           groupFor[path],
				DurationSeconds: result.Outcome.Duration.Seconds(),
				Status:          "done",
			})
		}
	}

	for digest, group := range snapshot {
		if len(group.Paths) > 1 {
			output.Groups = append(output.Groups, groupOutput{ID: group.ID, Digest: digest, Paths: group.Paths})
		}
	}
	sort.Slice(output.Groups, func(i, j int) bool { return output.Groups[i].ID < output.Groups[j].ID })

	return output
}
