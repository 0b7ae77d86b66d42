package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"xscraper/pkg/config"
	"xscraper/pkg/logger"
	"xscraper/pkg/scraper"
	"xscraper/pkg/ui"
)

var (
	// Download command flags
	outputDir       string
	concurrent      int
	rateLimit       int
	downloadTimeout int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <post-url>",
	Short: "Download all media from an X/Twitter post",
	Long: `Download every photo, video and animated GIF attached to a post.

Accepted URL forms:
  https://x.com/<handle>/status/<id>
  https://twitter.com/<handle>/status/<id>

Videos and GIFs are saved as MP4 in the highest available bitrate; photos
are saved at original quality. Files are named
twitter_<kind>_<timestamp>.<ext> in the output directory.`,
	Example: `  # Download into ./downloads (the default)
  xscraper download https://x.com/someuser/status/1956686646272790863

  # Download to a specific directory
  xscraper download https://x.com/someuser/status/1956686646272790863 -o ./media

  # Download the post's media concurrently
  xscraper download https://x.com/someuser/status/1956686646272790863 --concurrent 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDownload(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads (default: ./downloads)")
	downloadCmd.Flags().IntVar(&concurrent, "concurrent", 1, "number of concurrent downloads")
	downloadCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "requests per minute")
	downloadCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 60, "download timeout in seconds")
}

func runDownload(cmd *cobra.Command, args []string) {
	postURL := strings.TrimSpace(args[0])

	ui.PrintInfo("Target Post", postURL)

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if concurrent != 1 {
		flags["concurrent"] = concurrent
	}
	if rateLimit != 60 {
		flags["rate-limit"] = rateLimit
	}
	if downloadTimeout != 60 {
		flags["download-timeout"] = downloadTimeout
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("xscraper starting")

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize downloader", err.Error())
		os.Exit(1)
	}

	report, err := s.DownloadFromURL(postURL)
	if err != nil {
		logger.WithError(err).Error("download failed")
		ui.PrintError("DOWNLOAD FAILED", err.Error())
		os.Exit(1)
	}

	paths := report.Paths()

	// Account for per-entry failures
	if failed := report.Failed(); failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d of %d media entries failed", failed, len(report.Results)))
		for _, r := range report.Results {
			if !r.Success() {
				ui.PrintError(fmt.Sprintf("  %s #%d", r.Entry.Kind, r.Entry.Index), r.Err.Error())
			}
		}
	}

	if report.AllFailed() {
		ui.PrintError("No media could be downloaded")
		os.Exit(1)
	}

	if len(paths) == 0 {
		// A post without media is not an error
		ui.PrintSuccess("Post contains no media, nothing to download")
		return
	}

	ui.PrintSuccess(fmt.Sprintf("Downloaded %d file(s):", len(paths)))
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
}

// Make download the default command when no subcommand is specified
func init() {
	origRunE := rootCmd.RunE
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if origRunE != nil {
			return origRunE(cmd, args)
		}
		if len(args) > 0 && !isKnownCommand(args[0]) {
			// First argument that isn't a known command is a post URL
			return downloadCmd.RunE(downloadCmd, args)
		}
		return cmd.Help()
	}

	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
