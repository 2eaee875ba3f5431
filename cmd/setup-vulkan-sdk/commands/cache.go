package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/cache"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/install"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the SDK cache",
}

var cacheKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Print the cache keys for the requested version",
	Long: `Print the primary cache key and the restore key patterns that install
would use. "latest" is resolved against the metadata service first.`,
	Args: cobra.NoArgs,
	RunE: runCacheKey,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries in the local cache store",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

func init() {
	cacheCmd.AddCommand(cacheKeyCmd, cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheKey(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	p, err := currentPlatform(cfg)
	if err != nil {
		return err
	}

	ver, err := newResolver(cfg, newHTTPClient(), p.Tag()).Resolve(ctx, cfg.VulkanVersion)
	if err != nil {
		return err
	}

	key, restoreKeys := install.NewOrchestrator(p, nil).CacheKeys(ver)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "key: %s\n", key)
	for _, rk := range restoreKeys {
		fmt.Fprintf(out, "restore-key: %s\n", rk)
	}
	return nil
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	store := cache.NewLocalStore(cache.WithDir(cfg.CacheDir))
	entries, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "no cache entries in %s\n", store.Dir())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEY\tSIZE\tCREATED")
	for _, m := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Key, humanize.Bytes(uint64(max(m.Size, 0))), humanize.Time(m.Created))
	}
	return tw.Flush()
}
