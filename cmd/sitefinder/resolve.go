package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/event-site-finder/internal/config"
	"github.com/jonathan/event-site-finder/internal/db"
	"github.com/jonathan/event-site-finder/internal/fetch"
	"github.com/jonathan/event-site-finder/internal/observability"
	"github.com/jonathan/event-site-finder/internal/resolver"
	"github.com/jonathan/event-site-finder/internal/search"
	"github.com/jonathan/event-site-finder/internal/types"
	"github.com/jonathan/event-site-finder/internal/verify"
)

var (
	eventPath  string
	configPath string
	city       string
	verbose    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the official website for one event",
	Long:  "Reads an event record from a JSON file, runs the resolution pipeline and prints the result as JSON. A missing official site is a result, not a failure.",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&eventPath, "event", "", "path to the event JSON file (required)")
	resolveCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON config file")
	resolveCmd.Flags().StringVar(&city, "city", "", "location context (default London)")
	resolveCmd.Flags().BoolVar(&verbose, "verbose", false, "print stage-by-stage diagnostics")
	_ = resolveCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}
	var ev types.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("failed to parse event JSON: %w", err)
	}

	printer := observability.NewPrinter(os.Stderr, cfg.Verbose)

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: page cache unavailable: %v\n", err)
		} else {
			defer database.Close()
		}
	}

	opts := fetch.DefaultOptions()
	opts.UseBrowser = cfg.UseBrowser
	client := fetch.NewClient(opts, database)

	searcher, err := search.NewGoogleSearcher(ctx, cfg.SearchAPIKey, cfg.SearchCX, printer)
	if err != nil {
		return err
	}

	loc := resolver.Location{City: cfg.City}
	if city != "" {
		loc.City = city
	}

	r := resolver.New(resolver.Config{
		Searcher:    searcher,
		Verifier:    verify.New(client, printer, loc.City),
		Scraper:     client,
		Printer:     printer,
		Threshold:   cfg.Threshold,
		SearchLimit: cfg.SearchLimit,
	})

	result := r.Resolve(ctx, ev, loc)
	printer.PrintResult(ev, result)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
