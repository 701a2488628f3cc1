package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msptools/syncrosync/internal/csvimport"
	"github.com/msptools/syncrosync/internal/reconcile"
	"github.com/msptools/syncrosync/internal/telemetry"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tickets or comments from CSV exports",
}

var importTicketsCmd = &cobra.Command{
	Use:   "tickets [file]",
	Short: "Create tickets from a CSV export",
	Long: `Reads a ticket CSV export, maps each row's loosely-typed fields
(customer, tech, priority, dates) against the destination tenant's
reference data, and creates the tickets that do not already exist.
Rows whose ticket already exists are skipped; rows with an unparseable
created date or no usable ticket number are counted as failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args, importTickets)
	},
}

var importCommentsCmd = &cobra.Command{
	Use:   "comments [file]",
	Short: "Create ticket comments from a CSV export",
	Long: `Reads a comment CSV export and appends each comment to the matching
destination ticket, located by its cleaned ticket number. Comments whose
exact body already exists on the ticket are skipped, as are comments
whose ticket cannot be found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args, importComments)
	},
}

func init() {
	importCmd.PersistentFlags().BoolVar(&refreshFlag, "refresh-cache", false, "Refetch reference data instead of using the cached snapshot")
	importCmd.AddCommand(importTicketsCmd)
	importCmd.AddCommand(importCommentsCmd)
}

func runImport(cmd *cobra.Command, args []string, run func(ctx context.Context, env *runEnv, path string) (reconcile.Result, error)) error {
	env, err := setupRun(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	ctx, span := telemetry.Tracer().Start(cmd.Context(), "import")
	defer span.End()

	res, err := run(ctx, env, path)
	if err != nil {
		return err
	}

	printSummary(res, dryRunFlag)
	if res.Failures() > 0 {
		return fmt.Errorf("%d rows failed; see %s", res.Failures(), env.log.Path)
	}
	return nil
}

func importTickets(ctx context.Context, env *runEnv, path string) (reconcile.Result, error) {
	if path == "" {
		path = env.cfg.TicketsCSV
	}
	rows, err := csvimport.LoadTickets(path, env.log.Component("csvimport"))
	if err != nil {
		return reconcile.Result{}, err
	}
	env.log.Component("import").Infof("loaded %d ticket rows from %s", len(rows), path)
	return env.engine.ImportTickets(ctx, rows), nil
}

func importComments(ctx context.Context, env *runEnv, path string) (reconcile.Result, error) {
	if path == "" {
		path = env.cfg.CommentsCSV
	}
	rows, err := csvimport.LoadComments(path, env.log.Component("csvimport"))
	if err != nil {
		return reconcile.Result{}, err
	}
	env.log.Component("import").Infof("loaded %d comment rows from %s", len(rows), path)
	return env.engine.ImportComments(ctx, rows), nil
}
