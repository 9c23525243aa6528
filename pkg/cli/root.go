// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bstardust/mediapick/internal/config"
	"github.com/bstardust/mediapick/internal/logger"
	"github.com/bstardust/mediapick/internal/tempfile"
	"github.com/spf13/cobra"
)

// options holds the global flags and the configuration they resolve to
type options struct {
	configPath string
	logLevel   string
	cacheDir   string
	exifReader string

	cfg *config.Config
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down...")
		cancel()
	}()

	err := NewRootCommand().ExecuteContext(ctx)

	for _, perr := range tempfile.Default.Purge() {
		logger.Warn("%v", perr)
	}

	if err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "mediapick",
		Short:         "Resolve picked media to local files and preserve their EXIF data",
		Long:          `A helper for image picking flows: copies content references into a cache directory and carries EXIF attributes over to resized copies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.cacheDir, "cache-dir", "", "Directory for temporary copies")
	rootCmd.PersistentFlags().StringVar(&opts.exifReader, "exif-reader", "", "EXIF reader (exiftool, goexif)")

	// Add commands
	rootCmd.AddCommand(newResolveCommand(opts))
	rootCmd.AddCommand(newCopyExifCommand(opts))
	rootCmd.AddCommand(newSetDescriptionCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))

	return rootCmd
}

// load reads the configuration and applies flags that were set explicitly
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = o.cacheDir
	}
	if flags.Changed("exif-reader") {
		cfg.Exif.Reader = o.exifReader
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger.SetLevel(cfg.LogLevel)
	o.cfg = cfg
	return nil
}
