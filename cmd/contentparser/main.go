package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/api"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/config"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/extract"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/objstore"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/pipeline"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/recordstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "contentparser",
		Short:         "Extracts content and metadata from bucket files into the record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		processCmd(),
		processFileCmd(),
		retryCmd(),
		filesCmd(),
		extensionsCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		slog.Error("Command failed.", "error", err)
		os.Exit(1)
	}
}

// buildPipeline resolves configuration and connects both backends. Everything
// the pipeline needs (probe path, scratch dir, backends) is fixed here, once.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	objects, err := objstore.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create object store: %w", err)
	}
	records, err := recordstore.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create record store: %w", err)
	}

	extractors := pipeline.DefaultExtractors(cfg, objects)
	return pipeline.New(objects, records, extractors, cfg.Prefix, cfg.Concurrency), cfg, nil
}

// signalContext cancels between items on SIGINT/SIGTERM so a stopped batch
// leaves no staged temp files behind.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Process all unprocessed supported files under the configured prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			p, _, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			summary, err := p.Run(ctx)
			fmt.Printf("discovered=%d processed=%d skipped=%d failed=%d\n",
				summary.Discovered, summary.Processed, summary.Skipped, summary.Failed)
			return err
		},
	}
}

func processFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-file <path>",
		Short: "Process a single object by its bucket path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			p, _, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			res, err := p.ProcessPath(ctx, args[0])
			if err != nil {
				return err
			}
			printItem(res)
			return nil
		},
	}
}

func retryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <path>",
		Short: "Retry a previously failed object (removes its failed record first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			p, _, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			res, err := p.Retry(ctx, args[0])
			if err != nil {
				return err
			}
			printItem(res)
			return nil
		},
	}
}

func filesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List supported objects under the configured prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			p, _, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			files, err := p.ListSupported(ctx)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Println(f)
			}
			return nil
		},
	}
}

func extensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "List the supported file extensions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, ext := range pipeline.SupportedExtensions() {
				fmt.Println(ext)
			}
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			p, cfg, err := buildPipeline(ctx)
			if err != nil {
				return err
			}
			prober := extract.NewProber(cfg.FFprobePath, cfg.ProbeTimeout)
			return api.NewServer(p, prober, cfg.ScratchDir).Run(ctx, cfg.HTTPPort)
		},
	}
}

func printItem(res models.ItemResult) {
	if res.Error != "" {
		fmt.Printf("%s: %s (%s)\n", res.File, res.Status, res.Error)
		return
	}
	fmt.Printf("%s: %s\n", res.File, res.Status)
}
