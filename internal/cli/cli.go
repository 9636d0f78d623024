package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/lunch-line/internal/config"
	"github.com/pfrederiksen/lunch-line/internal/filter"
	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/parser"
	"github.com/pfrederiksen/lunch-line/internal/pdfdoc"
	"github.com/pfrederiksen/lunch-line/internal/publisher"
	"github.com/pfrederiksen/lunch-line/internal/scraper"
	"github.com/pfrederiksen/lunch-line/internal/storage"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitNoData     = 2
	ExitNothingNew = 3
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3"
var Version = "dev"

// exitError carries a specific exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// flagKeys maps config keys to the flags that override them
var flagKeys = map[string]string{
	"format":        "format",
	"data_dir":      "data-dir",
	"log_level":     "log-level",
	"meals":         "meals",
	"weekdays_only": "weekdays-only",
	"menu_url":      "url",
	"ics_path":      "ics",
	"calendar_name": "calendar-name",
	"notify":        "notify",
}

type rootFlags struct {
	configFile string
	envFile    string
	from       string
	to         string
	keywords   string
	sortOrder  string
	verbose    bool
}

// app holds the state shared by all commands of one invocation
type app struct {
	flags    rootFlags
	v        *viper.Viper
	cfg      *config.Config
	opener   pdfdoc.Opener
	notifier func(target string) (publisher.Publisher, error)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{opener: pdfdoc.Open, notifier: publisher.ForTarget})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lunch-line",
		Short: "Turn weekly school menu PDFs into calendar events",
		Long: `A CLI tool that reads a school's weekly menu PDF, works out which
date each day column belongs to and publishes breakfast, lunch and
PM snack as all-day calendar events.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	// Define flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "Config file (default: ./lunch-line.yaml or ~/.config/lunch-line/lunch-line.yaml)")
	pf.StringVar(&a.flags.envFile, "env-file", "", "Env file to load (default: ./.env if present)")
	pf.String("format", config.DefaultFormat, "Output format: text, json or yaml")
	pf.String("data-dir", config.DefaultDataDir, "Data directory for downloads and the published-days ledger")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("meals", "", "Comma-separated meals to include (breakfast, lunch, pm snack)")
	pf.Bool("weekdays-only", false, "Only include Monday to Friday")
	pf.StringVar(&a.flags.from, "from", "", "Only include days on or after this date (2025-07-28)")
	pf.StringVar(&a.flags.to, "to", "", "Only include days on or before this date")
	pf.StringVar(&a.flags.keywords, "keywords", "", "Comma-separated words a meal must mention")
	pf.StringVar(&a.flags.sortOrder, "sort", string(SortByDate), "Day order: date or reverse")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Enable verbose logging and print metrics")

	cmd.AddCommand(
		newParseCmd(a),
		newFetchCmd(a),
		newPublishCmd(a),
		newVersionCmd(),
	)

	return cmd
}

// setup resolves configuration and the logger before any command runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.v = config.NewViper()
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.v, config.Options{
		ConfigFile: a.flags.configFile,
		EnvFile:    a.flags.envFile,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Level()
	if a.flags.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if _, err := ParseSortOrder(a.flags.sortOrder); err != nil {
		return err
	}

	return nil
}

// teardown prints collected metrics in verbose mode
func (a *app) teardown(cmd *cobra.Command, args []string) {
	if !a.flags.verbose {
		return
	}
	writeJSON(cmd.ErrOrStderr(), logger.GetMetricsSnapshot())
}

func (a *app) format() OutputFormat {
	return OutputFormat(a.cfg.Format)
}

func (a *app) sortOrder() SortOrder {
	order, _ := ParseSortOrder(a.flags.sortOrder)
	return order
}

// buildFilter combines the configured and command-line criteria
func (a *app) buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()

	from, err := filter.ParseDate(a.flags.from)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := filter.ParseDate(a.flags.to)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("--from must not be after --to")
	}
	f.DateFrom = from
	f.DateTo = to

	meals, err := a.cfg.MealList()
	if err != nil {
		return nil, err
	}
	f.Meals = meals
	f.Keywords = filter.ParseKeywords(a.flags.keywords)
	f.WeekdaysOnly = a.cfg.WeekdaysOnly

	return f, nil
}

// parseMenu parses the PDF at path, mapping any failure to ExitNoData
func (a *app) parseMenu(path string) (*parser.Result, error) {
	result, err := parser.New(parser.WithOpener(a.opener)).Parse(path)
	if err != nil {
		return nil, &exitError{code: ExitNoData, err: fmt.Errorf("no menu data in %s: %w", path, err)}
	}
	return result, nil
}

func (a *app) storage() (*storage.Storage, error) {
	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <menu.pdf>",
		Short: "Print the meals of a menu PDF by date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) runParse(w io.Writer, path string) error {
	f, err := a.buildFilter()
	if err != nil {
		return err
	}

	result, err := a.parseMenu(path)
	if err != nil {
		return err
	}

	out := NewMenuOutput(result, f, a.sortOrder())
	if err := WriteMenu(w, out, a.format()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newFetchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest menu PDF from the school website and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.MenuURL == "" {
				return fmt.Errorf("no menu page configured: set --url, menu_url or LUNCH_LINE_MENU_URL")
			}

			dir := filepath.Join(a.cfg.DataDir, "menus")
			if expanded, err := storage.ExpandHome(dir); err == nil {
				dir = expanded
			}

			s := scraper.New(a.cfg.MenuURL)
			path, err := s.FetchLatest(dir)
			if err != nil {
				return fmt.Errorf("fetching menu from %s: %w", s.URL(), err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Downloaded %s\n", path)

			return a.runParse(cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().String("url", "", "Menu page URL (config: menu_url)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lunch-line %s\n", Version)
		},
	}
}

// Run executes the CLI with args and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return exitCode(cmd.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "%v\n", ee.err)
		}
		return ee.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
