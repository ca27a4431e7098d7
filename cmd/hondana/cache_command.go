package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hondana/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the lookup cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func openCache(ctx *commandContext) (*lookupcache.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.LookupCache.Enabled {
		return nil, fmt.Errorf("lookup cache is disabled in configuration")
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.LookupCache.TTLDays) * 24 * time.Hour
	return lookupcache.Open(cfg.LookupCache.Path, ttl, logger)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lookup cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			count, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", cfg.LookupCache.Path)
			fmt.Fprintf(out, "Entries: %d\n", count)
			fmt.Fprintf(out, "TTL:     %d days\n", cfg.LookupCache.TTLDays)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Lookup cache cleared")
			return nil
		},
	}
}
