package cli

import (
	"fmt"
	"strings"

	"github.com/bstardust/mediapick/internal/config"
	"github.com/bstardust/mediapick/internal/exif"
	"github.com/bstardust/mediapick/internal/logger"
	"github.com/spf13/cobra"
)

// stores are the EXIF stores for one command invocation
type stores struct {
	source      exif.Store
	destination exif.Store
	closers     []func() error
}

func (s *stores) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			logger.Warn("Failed to close EXIF store: %v", err)
		}
	}
}

// openStores picks the source store from the configured reader. Writes
// always go through exiftool, which is only started when needed.
func openStores(cfg *config.Config, needWriter bool) (*stores, error) {
	s := &stores{}

	var et *exif.ExiftoolStore
	startExiftool := func() (*exif.ExiftoolStore, error) {
		if et != nil {
			return et, nil
		}
		var err error
		et, err = exif.NewExiftoolStore(cfg.Exif.ExiftoolPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, et.Close)
		return et, nil
	}

	if strings.EqualFold(cfg.Exif.Reader, config.ReaderGoexif) {
		s.source = exif.NewGoexifStore()
	} else {
		store, err := startExiftool()
		if err != nil {
			return nil, err
		}
		s.source = store
	}

	if needWriter {
		store, err := startExiftool()
		if err != nil {
			s.Close()
			return nil, err
		}
		s.destination = store
	}

	return s, nil
}

func newCopyExifCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "copy-exif <source> <destination>",
		Short: "Copy the preserved EXIF attributes from an original image to a derivative",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts.cfg, true)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := exif.NewCopier(s.source, s.destination).Copy(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d attributes\n", n)
			return nil
		},
	}
}

func newSetDescriptionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-description <path> <text>",
		Short: "Set the ImageDescription attribute of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts.cfg, true)
			if err != nil {
				return err
			}
			defer s.Close()

			return exif.WriteImageDescription(s.destination, args[0], args[1])
		},
	}
}

func newInspectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Print the preserved EXIF attributes of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(opts.cfg, false)
			if err != nil {
				return err
			}
			defer s.Close()

			attrs, err := s.source.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to read attributes of %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			for _, tag := range exif.Tags {
				if v, ok := attrs.Get(tag); ok {
					fmt.Fprintf(out, "%s=%s\n", tag, v)
				}
			}
			return nil
		},
	}
}
