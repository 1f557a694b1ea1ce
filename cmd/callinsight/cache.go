package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/asp616848/live-call-insight/internal/cache"
	"github.com/asp616848/live-call-insight/internal/processor"
)

var (
	sweepMaxAge time.Duration
	resetYes    bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show entry counts, sizes and keys per namespace",
	RunE:  runCacheStatus,
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove entries older than --max-age",
	RunE:  runCacheSweep,
}

var cacheResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every cache entry",
	RunE:  runCacheReset,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd, cacheSweepCmd, cacheResetCmd)
	cacheSweepCmd.Flags().DurationVar(&sweepMaxAge, "max-age", 0, "Maximum entry age (default from config, 168h)")
	cacheResetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm removal of all entries")
}

func namespaces() ([]*cache.DiskCache, error) {
	var out []*cache.DiskCache
	for _, ns := range []string{processor.NamespaceSentiment, processor.NamespaceAnalysis} {
		c, err := openCache(ns)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	caches, err := namespaces()
	if err != nil {
		return err
	}
	var all []cache.Status
	for _, c := range caches {
		st, err := c.Status()
		if err != nil {
			return err
		}
		all = append(all, st)
	}
	if jsonOutput {
		return printJSON(all)
	}
	for _, st := range all {
		fmt.Println(titleStyle.Render(st.Namespace))
		printField("dir", st.Dir)
		printField("entries", st.Entries)
		printField("total size", sizeLabel(st.TotalBytes))
		for _, k := range st.Keys {
			fmt.Println("  " + valueStyle.Render(k))
		}
		fmt.Println()
	}
	return nil
}

func runCacheSweep(cmd *cobra.Command, args []string) error {
	maxAge := sweepMaxAge
	if maxAge <= 0 {
		maxAge = cfg.Cache.MaxAge
	}
	caches, err := namespaces()
	if err != nil {
		return err
	}
	removed := map[string]int{}
	for _, c := range caches {
		n, err := c.Sweep(maxAge)
		if err != nil {
			return err
		}
		removed[c.Namespace()] = n
	}
	if jsonOutput {
		return printJSON(map[string]any{"max_age": maxAge.String(), "removed": removed})
	}
	for ns, n := range removed {
		printField(ns, fmt.Sprintf("%d removed (older than %s)", n, maxAge))
	}
	return nil
}

func runCacheReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset without --yes")
	}
	caches, err := namespaces()
	if err != nil {
		return err
	}
	for _, c := range caches {
		if err := c.Reset(); err != nil {
			return err
		}
		printField(c.Namespace(), "reset")
	}
	return nil
}

func sizeLabel(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}
