package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/msptools/syncrosync/internal/telemetry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Reconcile a source tenant into the destination tenant",
	Long: `Fetches customers and tickets from the source tenant, diffs them
against the destination by normalized name, and creates what is missing.
Tickets are diffed per customer by subject; comments are replayed onto
newly created tickets.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	migrateCmd.Flags().StringVar(&sinceFlag, "since", "", "Only fetch source tickets updated after this point (e.g. 2024-12-01, -2w, \"last monday\")")
	migrateCmd.Flags().BoolVar(&refreshFlag, "refresh-cache", false, "Refetch reference data instead of using the cached snapshot")
	migrateCmd.Flags().Bool("skip-tickets", false, "Reconcile customers only")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	env, err := setupRun(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.cfg.RequireSource(); err != nil {
		return err
	}
	source := newClient(env.cfg, env.cfg.Source)
	env.engine.Source = source

	if !yesFlag && !dryRunFlag {
		if err := confirmMigrate(env.cfg.Source.Subdomain, env.cfg.Dest.Subdomain); err != nil {
			return err
		}
	}

	log := env.log.Component("migrate")
	log.Infof("migrating %s -> %s (dry-run=%v)", env.cfg.Source.Subdomain, env.cfg.Dest.Subdomain, dryRunFlag)

	ctx, span := telemetry.Tracer().Start(cmd.Context(), "migrate")
	defer span.End()

	srcCustomers, destCustomers, res, err := env.engine.Customers(ctx)
	if err != nil {
		return fmt.Errorf("customer reconciliation aborted: %w", err)
	}

	if skip, _ := cmd.Flags().GetBool("skip-tickets"); !skip {
		res.Merge(env.engine.Tickets(ctx, srcCustomers, destCustomers))
	}

	printSummary(res, dryRunFlag)
	log.Infof("api calls: source=%d dest=%d", source.CallCount(), env.dest.CallCount())

	if res.Failures() > 0 {
		return fmt.Errorf("%d items failed; see %s", res.Failures(), env.log.Path)
	}
	return nil
}

// confirmMigrate asks before writing to a live tenant.
func confirmMigrate(source, dest string) error {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Create missing records from %q in %q?", source, dest)).
				Description("Existing records are never modified. Use --dry-run to preview.").
				Affirmative("Migrate").
				Negative("Cancel").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Migration cancelled.")
			os.Exit(0)
		}
		return fmt.Errorf("confirmation form error: %w", err)
	}
	if !confirmed {
		fmt.Fprintln(os.Stderr, "Migration cancelled.")
		os.Exit(0)
	}
	return nil
}
