package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"NewsMosaic/internal/app"
	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/infrastructure/scheduler"
	"NewsMosaic/internal/logging"
	"NewsMosaic/internal/output"
	"NewsMosaic/internal/usecase"
)

// appLoader builds the application for one command invocation.
type appLoader func(ctx context.Context, configPath string) (*app.Application, error)

func loadApplication(ctx context.Context, configPath string) (*app.Application, error) {
	if configPath != "" {
		if err := os.Setenv(config.PathEnv, configPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx, cfg, logger), nil
}

func newRootCmd(load appLoader) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "newsmosaic",
		Short: "Aggregate, cluster and annotate news into a mosaic",
		Long: `newsmosaic fetches articles for a query from several news sources,
groups them into topical clusters and annotates every article with a type,
a takeaway and a sentiment reading.

Without API keys it runs on a built-in demo set and rule-based annotations.

Example usage:
  newsmosaic mosaic "climate"          # full mosaic as JSON
  newsmosaic mosaic ai --lite          # tiles only, no cluster summaries
  newsmosaic fetch "chip export" --max 20
  newsmosaic summarize articles.json   # summarize a supplied article list
  newsmosaic sources                   # show which sources are enabled
  newsmosaic watch ai --every 15m      # rebuild the mosaic periodically`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $"+config.PathEnv+")")

	loadFor := func(cmd *cobra.Command) (*app.Application, error) {
		return load(cmd.Context(), configPath)
	}

	root.AddCommand(
		newMosaicCmd(loadFor),
		newFetchCmd(loadFor),
		newSummarizeCmd(loadFor),
		newSourcesCmd(loadFor),
		newWatchCmd(loadFor),
	)
	return root
}

func newMosaicCmd(load func(*cobra.Command) (*app.Application, error)) *cobra.Command {
	var (
		query    string
		days     int
		maxItems int
		lite     bool
	)
	cmd := &cobra.Command{
		Use:   "mosaic [query]",
		Short: "Build a clustered, annotated mosaic for a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queryFrom(query, args)
			if err != nil {
				return err
			}
			application, err := load(cmd)
			if err != nil {
				return err
			}
			days, maxItems := window(cmd, application, days, maxItems)
			mosaic, err := application.Mosaic(cmd.Context(), usecase.Request{
				Query:         q,
				Days:          days,
				MaxItems:      maxItems,
				SkipSummaries: lite,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), mosaic)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().IntVar(&days, "days", 0, "look-back window in days (default from config)")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of articles (default from config)")
	cmd.Flags().BoolVar(&lite, "lite", false, "skip cluster summaries")
	return cmd
}

func newFetchCmd(load func(*cobra.Command) (*app.Application, error)) *cobra.Command {
	var (
		query    string
		days     int
		maxItems int
	)
	cmd := &cobra.Command{
		Use:   "fetch [query]",
		Short: "Fetch and merge articles without clustering",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queryFrom(query, args)
			if err != nil {
				return err
			}
			application, err := load(cmd)
			if err != nil {
				return err
			}
			days, maxItems := window(cmd, application, days, maxItems)
			articles, err := application.Fetch(cmd.Context(), q, days, maxItems)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), articles)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().IntVar(&days, "days", 0, "look-back window in days (default from config)")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of articles (default from config)")
	return cmd
}

func newSummarizeCmd(load func(*cobra.Command) (*app.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize a JSON array of articles read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open articles: %w", err)
				}
				defer f.Close()
				input = f
			}

			articles, err := readArticles(input)
			if err != nil {
				return err
			}
			application, err := load(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), application.Summarize(cmd.Context(), articles))
		},
	}
}

func newSourcesCmd(load func(*cobra.Command) (*app.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List sources and whether each is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := load(cmd)
			if err != nil {
				return err
			}
			caps := application.Capabilities()

			table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"SOURCE", "ENABLED", "NOTE"})
			for _, name := range application.SourceNames() {
				table.AddRow(name, yesNo(caps.Enabled(name)), config.SourceRequirement(name))
			}
			llmNote := "needs a provider key, summaries use templates"
			if application.Generative() {
				llmNote = "model summaries"
			}
			table.AddRow("llm", yesNo(application.Generative()), llmNote)
			if err := table.Render(); err != nil {
				return err
			}

			if !caps.AnySource() {
				fmt.Fprintln(cmd.OutOrStdout(), "offline: no source enabled, serving built-in fixtures")
			}
			return nil
		},
	}
}

func newWatchCmd(load func(*cobra.Command) (*app.Application, error)) *cobra.Command {
	var (
		query    string
		days     int
		maxItems int
		lite     bool
		every    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [query]",
		Short: "Rebuild the mosaic on an interval, one JSON document per run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queryFrom(query, args)
			if err != nil {
				return err
			}
			application, err := load(cmd)
			if err != nil {
				return err
			}

			days, maxItems := window(cmd, application, days, maxItems)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			var runErr error
			job := func(ctx context.Context, _ time.Time) {
				mosaic, err := application.Mosaic(ctx, usecase.Request{
					Query:         q,
					Days:          days,
					MaxItems:      maxItems,
					SkipSummaries: lite,
				})
				if err == nil {
					err = writeJSON(out, mosaic)
				}
				if err != nil && ctx.Err() == nil {
					runErr = err
					cancel()
				}
			}

			ticker := scheduler.NewTickerScheduler(every)
			if err := ticker.Start(ctx, job); err != nil {
				return err
			}
			ticker.Wait()
			return runErr
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().IntVar(&days, "days", 0, "look-back window in days (default from config)")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of articles (default from config)")
	cmd.Flags().BoolVar(&lite, "lite", false, "skip cluster summaries")
	cmd.Flags().DurationVar(&every, "every", 15*time.Minute, "rebuild interval")
	return cmd
}

// window resolves --days and --max, taking configured defaults for flags
// the user did not set. Explicit values, zero included, pass through.
func window(cmd *cobra.Command, application *app.Application, days, maxItems int) (int, int) {
	defaults := application.Defaults()
	if !cmd.Flags().Changed("days") {
		days = defaults.Days
	}
	if !cmd.Flags().Changed("max") {
		maxItems = defaults.MaxItems
	}
	return days, maxItems
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func queryFrom(flag string, args []string) (string, error) {
	q := flag
	if q == "" && len(args) == 1 {
		q = args[0]
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return "", usecase.ErrEmptyQuery
	}
	return q, nil
}

// readArticles decodes a JSON array of articles and fills in missing ids.
func readArticles(r io.Reader) ([]domain.Article, error) {
	var articles []domain.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	for i, a := range articles {
		if a.ID == "" {
			articles[i].ID = domain.MakeID(a.Title, a.Source, a.PublishedAt)
		}
	}
	return articles, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
