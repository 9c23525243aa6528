package cli

import (
	"context"
	"fmt"

	"github.com/bstardust/mediapick/internal/config"
	"github.com/bstardust/mediapick/internal/progress"
	"github.com/bstardust/mediapick/internal/resolver"
	"github.com/bstardust/mediapick/internal/tempfile"
	"github.com/bstardust/mediapick/pkg/content"
	"github.com/spf13/cobra"
)

func newResolveCommand(opts *options) *cobra.Command {
	var deleteOnExit bool

	cmd := &cobra.Command{
		Use:   "resolve [flags] <locator>...",
		Short: "Copy content or file locators into the cache directory and print the local paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts.cfg, args, deleteOnExit)
		},
	}

	cmd.Flags().BoolVar(&deleteOnExit, "delete-on-exit", false, "Remove the copies when the command exits")

	return cmd
}

// newContentResolver routes file locators to disk and content locators to the store, if configured
func newContentResolver(ctx context.Context, cfg *config.Config) (*content.Mux, error) {
	mux := content.NewMux()
	mux.Handle(content.SchemeFile, content.NewFileResolver())

	if cfg.Store.Enabled() {
		store, err := content.NewObjectStoreResolver(ctx, content.StoreConfig{
			Endpoint:  cfg.Store.Endpoint,
			Region:    cfg.Store.Region,
			Bucket:    cfg.Store.Bucket,
			AccessKey: cfg.Store.AccessKey,
			SecretKey: cfg.Store.SecretKey,
			UseSSL:    cfg.Store.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize content store: %w", err)
		}
		mux.Handle(content.SchemeContent, store)
	}

	return mux, nil
}

func runResolve(cmd *cobra.Command, cfg *config.Config, args []string, deleteOnExit bool) error {
	ctx := cmd.Context()

	mux, err := newContentResolver(ctx, cfg)
	if err != nil {
		return err
	}

	registry := tempfile.Default
	if !deleteOnExit {
		// copies outlive the command; track them in a registry nobody purges
		registry = tempfile.NewRegistry()
	}
	r := resolver.New(mux, cfg.CacheDir, registry)

	reporter := progress.New("resolve")
	reporter.Start(len(args))

	for _, arg := range args {
		u, err := content.Parse(arg)
		if err != nil {
			reporter.Failed(arg)
			continue
		}

		path, ok := r.PathFromURI(ctx, u)
		if !ok {
			reporter.Failed(arg)
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		reporter.Succeeded(arg)
	}

	summary := reporter.Finish()
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d locators could not be resolved: %v", summary.Failed, summary.Total, reporter.Failures())
	}
	return nil
}
