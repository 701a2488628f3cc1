package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msptools/syncrosync/internal/config"
	"github.com/msptools/syncrosync/internal/mapping"
	"github.com/msptools/syncrosync/internal/refcache"
	"github.com/msptools/syncrosync/internal/reconcile"
	"github.com/msptools/syncrosync/internal/runlog"
	"github.com/msptools/syncrosync/internal/syncro"
	"github.com/msptools/syncrosync/internal/timeparsing"
	"github.com/msptools/syncrosync/internal/writer"
)

var (
	configFile  string
	verboseFlag bool
	quietFlag   bool
	dryRunFlag  bool
	yesFlag     bool
	sinceFlag   string
	refreshFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "syncrosync",
	Short: "syncrosync - Syncro MSP tenant migration and reconciliation",
	Long: `Reconciles helpdesk data between Syncro MSP tenants, or imports it
from CSV exports. Compares source and destination by normalized names,
then creates whatever the destination is missing. Never updates or
deletes existing records.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("syncrosync version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Initialize(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./syncrosync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Report what would be created without writing")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// runEnv bundles everything a run-style command needs: the per-run log,
// the destination client, the reference snapshot, and the wired engine.
type runEnv struct {
	cfg    *config.Config
	log    *runlog.Run
	dest   *syncro.Client
	cache  *refcache.Cache
	engine *reconcile.Engine
}

func (e *runEnv) close() {
	if e.log != nil {
		_ = e.log.Close()
	}
}

// newClient builds a tenant client with configured pacing and timeout.
func newClient(cfg *config.Config, t config.Tenant) *syncro.Client {
	c := syncro.NewClient(syncro.TenantURL(t.Subdomain), t.APIKey)
	if cfg.Pacing > 0 {
		c.Pacing = cfg.Pacing
	}
	if cfg.Timeout > 0 {
		c.HTTPClient.Timeout = cfg.Timeout
	}
	return c
}

// setupRun wires the destination-side machinery shared by migrate and
// import: log, client, reference cache, mapper, writer, engine. The
// source side is left nil for CSV runs.
func setupRun(cmd *cobra.Command) (*runEnv, error) {
	cfg := config.Load()
	if err := cfg.RequireDest(); err != nil {
		return nil, err
	}

	run, err := runlog.New(cfg.LogsDir, verboseFlag)
	if err != nil {
		return nil, err
	}
	if !quietFlag {
		fmt.Fprintf(os.Stderr, "logging to %s\n", run.Path)
	}

	dest := newClient(cfg, cfg.Dest)
	cache := refcache.New(cfg.CachePath, dest, run.Component("refcache"))

	snap, err := cache.Get(cmd.Context(), refreshFlag)
	if err != nil {
		run.Close()
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	mapper := mapping.New(snap, run.Component("mapping"))
	if cfg.FuzzyCutoff > 0 {
		mapper.FuzzyCutoff = cfg.FuzzyCutoff
	}

	w := writer.New(dest, snap, run.Component("writer"))

	since := ""
	if sinceFlag != "" {
		t, err := timeparsing.ParsePoint(sinceFlag, time.Now().In(cfg.Location()))
		if err != nil {
			run.Close()
			return nil, fmt.Errorf("invalid --since value: %w", err)
		}
		since = t.Format(time.RFC3339)
	}

	engine := &reconcile.Engine{
		Dest:   dest,
		Writer: w,
		Mapper: mapper,
		Log:    run.Component("reconcile"),
		DryRun: dryRunFlag,
		Since:  since,
		Loc:    cfg.Location(),
	}

	return &runEnv{cfg: cfg, log: run, dest: dest, cache: cache, engine: engine}, nil
}
