package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"listharvest/internal/config"
	"listharvest/internal/formatter"
	"listharvest/internal/harvest"
	"listharvest/internal/logger"
	"listharvest/internal/scraper"
	"listharvest/internal/sites/listing"
	_ "listharvest/internal/sites/snapshot"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	site         string
	target       int
	seedFile     string
	outputFormat string
	outputFile   string
	configFile   string
	waitFor      string
	waitTarget   string
	timeout      time.Duration
	maxAttempts  int
	baseURL      string
	saveHTML     string
	showUI       bool
	proxyURL     string
	logLevel     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "listharvest [URL|FILE]",
		Short:   "Harvest product links from a \"load more\" listing page",
		Version: version,
		Long: `listharvest drives a headless browser through a product listing page,
clicking its "load more" control until the requested number of product
links has been collected or the page stops yielding new ones.`,
		Example: `  # Collect as many products as the page reports and print them
  listharvest "https://shop.example.com/women/shoes"

  # Stop at 120 products and save as CSV
  listharvest -n 120 -o shoes.csv "https://shop.example.com/women/shoes"

  # Resume a previous run
  listharvest --seed shoes.json -o shoes-more.json "https://shop.example.com/women/shoes"

  # Harvest a saved page without a browser
  listharvest --site snapshot --base-url https://shop.example.com/ -f json page.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(0)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&site, "site", "listing", "Site mode (listing, snapshot)")
	rootCmd.Flags().IntVarP(&target, "target", "n", 0, "Number of items to collect (0 uses the total reported by the page)")
	rootCmd.Flags().StringVar(&seedFile, "seed", "", "JSON file of previously collected items to resume from")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (html, text, markdown, json, csv)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVarP(&waitFor, "wait-for", "w", "load", "Wait strategy (load, element, time)")
	rootCmd.Flags().StringVarP(&waitTarget, "wait-target", "T", "", "Wait target (selector for 'element' strategy, milliseconds for 'time' strategy)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Navigation timeout duration")
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Consecutive cycles without new items before giving up")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for resolving links in snapshot mode")
	rootCmd.Flags().StringVar(&saveHTML, "save-html", "", "Save the fully loaded page HTML to this file (replayable with --site snapshot)")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890), defaults to LISTHARVEST_PROXY env var")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	s, ok := scraper.Get(site)
	if !ok {
		return fmt.Errorf("unknown site: %s (available: %s)", site, strings.Join(scraper.Names(), ", "))
	}

	var seed []harvest.ItemRecord
	if seedFile != "" {
		seed, err = listing.LoadSeed(seedFile)
		if err != nil {
			return err
		}
		log.Info().Int("records", len(seed)).Str("file", seedFile).Msg("resuming from seed")
	}

	opts := scraper.Options{
		Target:     target,
		Seed:       seed,
		BaseURL:    baseURL,
		SaveHTML:   saveHTML,
		WaitFor:    cfg.Browser.WaitFor,
		WaitTarget: cfg.Browser.WaitTarget,
		Timeout:    cfg.Browser.NavigateTimeout,
		ShowUI:     !cfg.Browser.Headless,
		ProxyURL:   cfg.Browser.Proxy,
		Stealth:    cfg.Browser.Stealth,
		UserAgent:  cfg.Browser.UserAgent,
		Harvest:    cfg.HarvestOptions(),
		Logger:     log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	content, err := s.Scrape(ctx, normalizeTarget(site, args[0]), opts)
	if err != nil {
		return fmt.Errorf("failed to scrape: %w", err)
	}

	outputContent, err := formatter.Format(content, cfg.Output.Format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if cfg.Output.File != "" {
		if err := os.WriteFile(cfg.Output.File, []byte(outputContent), 0644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		log.Info().Str("file", cfg.Output.File).Msg("output written")
	} else {
		fmt.Println(outputContent)
	}

	return nil
}

// applyFlags overrides configuration with the flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output.File = outputFile
	}
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	} else if cfg.Output.File != "" {
		// If output file is specified but format is not, infer format from file extension
		if inferred := formatter.InferFromExtension(cfg.Output.File); inferred != "" {
			cfg.Output.Format = inferred
		}
	}
	if flags.Changed("wait-for") {
		cfg.Browser.WaitFor = waitFor
	}
	if flags.Changed("wait-target") {
		cfg.Browser.WaitTarget = waitTarget
	}
	if flags.Changed("timeout") {
		cfg.Browser.NavigateTimeout = timeout
	}
	if flags.Changed("showui") {
		cfg.Browser.Headless = !showUI
	}
	if flags.Changed("proxy") {
		cfg.Browser.Proxy = proxyURL
	}
	if flags.Changed("max-attempts") {
		cfg.Harvest.MaxAttempts = maxAttempts
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
}

// normalizeTarget adds http:// to listing URLs without a protocol prefix
func normalizeTarget(site, raw string) string {
	raw = strings.TrimSpace(raw)
	if site != "listing" || raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "file://") {
		return "http://" + raw
	}
	return raw
}
