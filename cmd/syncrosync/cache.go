package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msptools/syncrosync/internal/config"
	"github.com/msptools/syncrosync/internal/refcache"
	"github.com/msptools/syncrosync/internal/runlog"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cached reference-data snapshot",
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refetch reference data from the destination tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, run, err := openCache()
		if err != nil {
			return err
		}
		defer run.Close()

		snap, err := cache.Get(cmd.Context(), true)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		printSnapshot(snap)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached snapshot's record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, run, err := openCache()
		if err != nil {
			return err
		}
		defer run.Close()

		snap, err := cache.Get(cmd.Context(), false)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		printSnapshot(snap)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, run, err := openCache()
		if err != nil {
			return err
		}
		defer run.Close()

		if err := cache.Invalidate(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheRefreshCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCache() (*refcache.Cache, *runlog.Run, error) {
	cfg := config.Load()
	if err := cfg.RequireDest(); err != nil {
		return nil, nil, err
	}
	run, err := runlog.New(cfg.LogsDir, verboseFlag)
	if err != nil {
		return nil, nil, err
	}
	dest := newClient(cfg, cfg.Dest)
	return refcache.New(cfg.CachePath, dest, run.Component("refcache")), run, nil
}

func printSnapshot(snap *refcache.Snapshot) {
	fmt.Printf("techs:       %d\n", len(snap.Techs))
	fmt.Printf("issue types: %d\n", len(snap.IssueTypes))
	fmt.Printf("customers:   %d\n", len(snap.Customers))
	fmt.Printf("contacts:    %d\n", len(snap.Contacts))
	fmt.Printf("statuses:    %d\n", len(snap.Statuses))
}
