package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dupescan/internal/logging"
	"dupescan/internal/trash"
)

func newPruneCommand(cctx *commandContext) *cobra.Command {
	var workers int
	var dryRun bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "prune [path...]",
		Short: "Move duplicate copies into the trash directory",
		Long: `Prune hashes the given files and directories, then moves every duplicate
copy into paths.trash_dir, keeping the first path of each group. Nothing is
deleted; moved files can be restored by hand.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runHashJob(cmd, cctx, args, workers, !jsonOut)
			if err != nil {
				return err
			}
			if report.cancelled {
				return fmt.Errorf("run cancelled before grouping completed; nothing pruned")
			}

			groups := duplicateGroups(report.index)
			var candidates []string
			for _, group := range groups {
				candidates = append(candidates, group.Paths[1:]...)
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				if jsonOut {
					return writeJSON(cmd, pruneOutput{})
				}
				fmt.Fprintln(out, "No duplicates found; nothing to prune")
				return nil
			}

			if dryRun {
				if jsonOut {
					return writeJSON(cmd, pruneOutput{Candidates: candidates, DryRun: true})
				}
				fmt.Fprintf(out, "Would move %d file(s) to trash:\n", len(candidates))
				for _, path := range candidates {
					fmt.Fprintf(out, "  %s\n", path)
				}
				return nil
			}

			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cctx.ensureLogger()
			if err != nil {
				return err
			}
			log := logging.NewComponentLogger(logger, "cli")

			mover := trash.NewMover(cfg.Paths.TrashDir, logger)
			var moved []string
			var failed int
			for _, path := range candidates {
				if _, err := mover.Move(path); err != nil {
					failed++
					log.Warn("prune failed", logging.String(logging.FieldPath, path), logging.Error(err))
					continue
				}
				moved = append(moved, path)
			}

			// Retract moved paths; surviving groups are renumbered 1..N by
			// fingerprint order.
			report.index.Remove(moved)
			remaining := duplicateGroups(report.index)

			if jsonOut {
				return writeJSON(cmd, pruneOutput{
					Moved:     moved,
					Failed:    failed,
					Remaining: len(remaining),
					TrashDir:  mover.Dir(),
				})
			}

			fmt.Fprintf(out, "Moved %d file(s) to %s\n", len(moved), mover.Dir())
			if failed > 0 {
				fmt.Fprintf(out, "%d file(s) could not be moved (see log)\n", failed)
			}
			fmt.Fprintf(out, "%d duplicate group(s) remaining\n", len(remaining))

			if failed > 0 {
				return fmt.Errorf("%d file(s) could not be moved to trash", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Hashing concurrency (0 selects the automatic default)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List the files that would move without moving them")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON instead of text")
	return cmd
}

type pruneOutput struct {
	Candidates []string `json:"candidates,omitempty"`
	Moved      []string `json:"moved,omitempty"`
	Failed     int      `json:"failed,omitempty"`
	Remaining  int      `json:"remaining_groups"`
	TrashDir   string   `json:"trash_dir,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`
}
