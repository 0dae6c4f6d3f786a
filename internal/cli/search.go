package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HectorTTL/mailsift/internal/model"
	"github.com/HectorTTL/mailsift/internal/pipeline"
	"github.com/HectorTTL/mailsift/internal/prefilter"
	"github.com/HectorTTL/mailsift/internal/report"
)

var (
	caseSensitive bool
	logToFile     bool
	singleThread  bool
	workerCount   int
	fadeAge       bool
	useCache      bool
	baseRoot      string
	inboxRoot     string
	outboxRoot    string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the mail trees for a literal term",
	Long: `Search runs the two-phase pipeline over the inbox and outbox trees:
- Prefilter with ripgrep (or grep) to collect candidate files
- Verify each candidate precisely, skipping base64 and HTML regions
- Stream matches with age-colored dates and attachment markers

Example:
  mailsift search invoice
  mailsift search "Jan Jansen" --case-sensitive
  mailsift search factuur --log --fade-age
  mailsift search offerte --base ~/mail_archive --outbox sent`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "c", false, "case-sensitive search (default insensitive)")
	searchCmd.Flags().BoolVarP(&logToFile, "log", "t", false, "also write results to the log file")
	searchCmd.Flags().BoolVarP(&singleThread, "single-thread", "1", false, "single-threaded verify phase")
	searchCmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "verification worker count (0 = configured default)")
	searchCmd.Flags().BoolVar(&fadeAge, "fade-age", false, "subtle fading date colors (default is obvious colors)")
	searchCmd.Flags().BoolVar(&useCache, "cache", false, "cache verification results within this process")

	searchCmd.Flags().StringVar(&baseRoot, "base", "", "root directory that contains the inbox and outbox trees")
	searchCmd.Flags().StringVar(&inboxRoot, "inbox", "", "relative or absolute path to the inbox tree")
	searchCmd.Flags().StringVar(&outboxRoot, "outbox", "", "relative or absolute path to the outbox tree")
}

// buildConfig resolves the layered configuration: defaults, then config
// file / environment via viper, then explicit flags.
func buildConfig(cmd *cobra.Command) *model.Config {
	cfg := model.DefaultConfig()

	if viper.IsSet("roots.base") {
		cfg.Roots.Base = viper.GetString("roots.base")
	}
	if viper.IsSet("roots.inbox") {
		cfg.Roots.Inbox = viper.GetString("roots.inbox")
	}
	if viper.IsSet("roots.outbox") {
		cfg.Roots.Outbox = viper.GetString("roots.outbox")
	}
	if viper.IsSet("search.workers") {
		cfg.Search.Workers = viper.GetInt("search.workers")
	}
	if viper.IsSet("search.case_sensitive") {
		cfg.Search.CaseSensitive = viper.GetBool("search.case_sensitive")
	}
	if viper.IsSet("output.fade_age") {
		cfg.Output.FadeAge = viper.GetBool("output.fade_age")
	}
	if viper.IsSet("output.log_file") {
		cfg.Output.LogFile = viper.GetString("output.log_file")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}

	if baseRoot != "" {
		cfg.Roots.Base = baseRoot
	}
	if inboxRoot != "" {
		cfg.Roots.Inbox = inboxRoot
	}
	if outboxRoot != "" {
		cfg.Roots.Outbox = outboxRoot
	}
	if workerCount > 0 {
		cfg.Search.Workers = workerCount
	}
	if singleThread {
		cfg.Search.Workers = 1
	}
	if cmd.Flags().Changed("fade-age") {
		cfg.Output.FadeAge = fadeAge
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	if cmd.Flags().Changed("case-sensitive") {
		cfg.Search.CaseSensitive = caseSensitive
	}
	cfg.Output.Verbose = verbose

	return cfg
}

func runSearch(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return fmt.Errorf("search term must not be empty")
	}

	cfg := buildConfig(cmd)
	term := model.SearchTerm{Text: args[0], CaseSensitive: cfg.Search.CaseSensitive}

	if verbose {
		fmt.Fprintf(os.Stderr, "Inbox:   %s\n", cfg.InboxPath())
		fmt.Fprintf(os.Stderr, "Outbox:  %s\n", cfg.OutboxPath())
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Search.Workers)
		fmt.Fprintln(os.Stderr)
	}

	scheme := report.SchemeObvious
	if cfg.Output.FadeAge {
		scheme = report.SchemeFade
	}

	logPath := ""
	if logToFile {
		logPath = cfg.Output.LogFile
	}

	reporter, err := report.NewReporter(report.Options{
		Scheme:      scheme,
		OutboxToken: cfg.OutboxToken(),
		LogPath:     logPath,
	})
	if err != nil {
		// The search itself is unaffected; only mirroring is lost.
		fmt.Fprintf(os.Stderr, "warning: %v; continuing without log file\n", err)
		reporter, err = report.NewReporter(report.Options{
			Scheme:      scheme,
			OutboxToken: cfg.OutboxToken(),
		})
		if err != nil {
			return fmt.Errorf("reporter: %w", err)
		}
	}

	source := prefilter.NewSource(cfg.InboxPath(), cfg.OutboxPath())
	p := pipeline.New(cfg, source, reporter)

	summary, err := p.Run(term)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verified %d of %d candidates\n", summary.Done, summary.Total)
	}
	return nil
}
