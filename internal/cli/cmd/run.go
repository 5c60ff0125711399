package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"ytsave/internal/batch"
	"ytsave/internal/config"
	"ytsave/internal/dirs"
	"ytsave/internal/engine"
	"ytsave/internal/history"
	"ytsave/internal/logging"
	"ytsave/internal/options"
	"ytsave/internal/profiles"
	"ytsave/internal/progress"
	"ytsave/internal/ui"
	"ytsave/internal/util"
	"ytsave/internal/util/deps"
)

// Swapped in tests.
var (
	findDownloader = deps.FindDownloader
	isTerminal     = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	newEngine      = func(path string, stream bool, logger log.Interface) batch.Engine {
		return engine.New(path, engine.WithStream(stream), engine.WithLogger(logger))
	}
	openHistory = func() (*history.Store, error) {
		p, err := dirs.HistoryDB()
		if err != nil {
			return nil, err
		}
		return history.Open(p)
	}
)

type runInputs struct {
	URLs        []string
	URLsFile    string
	ConfigPath  string
	Profile     string
	SaveDir     string
	Template    string
	StartIndex  int
	PerItem     string
	PerPlaylist string

	CookiesFromBrowser string
	Cookies            string
	Impersonate        string
	SkipAuthcheck      bool

	DLBinary  string
	DryRun    bool
	NoUI      bool
	NoHistory bool
	Verbose   bool
}

// assembleRunInputs reads flags with precedence flag > env > default.
func assembleRunInputs(cmd *cobra.Command, args []string) (runInputs, error) {
	v := viper.New()
	if err := config.Init(cmd, v); err != nil {
		return runInputs{}, err
	}

	in := runInputs{
		URLs:               args,
		URLsFile:           v.GetString("urls_file"),
		ConfigPath:         v.GetString("config"),
		Profile:            strings.ToLower(v.GetString("profile")),
		SaveDir:            v.GetString("save_dir"),
		Template:           v.GetString("template"),
		StartIndex:         v.GetInt("start_index"),
		PerItem:            v.GetString("per_item_subdir"),
		PerPlaylist:        v.GetString("per_playlist_subdir"),
		CookiesFromBrowser: v.GetString("cookies_from_browser"),
		Cookies:            v.GetString("cookies"),
		Impersonate:        v.GetString("impersonate"),
		SkipAuthcheck:      v.GetBool("yt_skip_authcheck"),
		DLBinary:           v.GetString("dl_binary"),
		DryRun:             v.GetBool("dry_run"),
		NoUI:               v.GetBool("no_ui"),
		NoHistory:          v.GetBool("no_history"),
		Verbose:            v.GetBool("verbose"),
	}

	if !profiles.Valid(in.Profile) {
		return runInputs{}, fmt.Errorf("invalid --profile: %q (valid: %s)", in.Profile, strings.Join(profiles.Names(), "|"))
	}
	if in.Impersonate != "" && !slices.Contains(impersonateTargets, in.Impersonate) {
		return runInputs{}, fmt.Errorf("invalid --impersonate: %q (valid: %s)", in.Impersonate, strings.Join(impersonateTargets, "|"))
	}
	if in.ConfigPath == "" {
		in.ConfigPath = config.UserDocument()
	}
	return in, nil
}

// collectURLs appends the URL file's entries to the positional URLs.
func collectURLs(in runInputs) ([]string, error) {
	urls := append([]string(nil), in.URLs...)
	if in.URLsFile != "" {
		more, err := util.ReadURLFile(in.URLsFile)
		if err != nil {
			return nil, fmt.Errorf("read --urls-file: %w", err)
		}
		urls = append(urls, more...)
	}
	return urls, nil
}

// buildOptions projects cfg for in and layers the CLI-only overrides on top.
func buildOptions(cfg *config.Config, in runInputs) (options.Options, config.Subdirs, error) {
	opts, err := cfg.BuildOptions(in.Profile, in.SaveDir, in.Template)
	if err != nil {
		return nil, config.Subdirs{}, err
	}
	opts = profiles.Apply(opts, in.Profile)

	subdirs := cfg.SubdirTemplates()
	if in.PerItem != "" {
		subdirs.PerItem = in.PerItem
	}
	if in.PerPlaylist != "" {
		subdirs.PerPlaylist = in.PerPlaylist
	}

	if in.CookiesFromBrowser != "" {
		opts[options.KeyCookiesFromBrowser] = options.ParseBrowserCookies(in.CookiesFromBrowser)
	}
	if in.Cookies != "" {
		opts[options.KeyCookieFile] = in.Cookies
	}
	if in.Impersonate != "" {
		opts[options.KeyImpersonate] = in.Impersonate
	}
	if in.SkipAuthcheck {
		merged, err := options.MergeExtractorArgs(opts[options.KeyExtractorArgs], options.ExtractorArgs{
			"youtubetab": {"skip": {"authcheck"}},
		})
		if err != nil {
			return nil, config.Subdirs{}, err
		}
		opts[options.KeyExtractorArgs] = merged
	}
	return opts, subdirs, nil
}

func runExecute(cmd *cobra.Command, args []string) error {
	in, err := assembleRunInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	cfg, err := config.Load(in.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	urls, err := collectURLs(in)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if len(urls) == 0 {
		return &ExitError{Code: ExitNoURLs, Err: errors.New("no URLs provided; use positional URLs or --urls-file")}
	}

	opts, subdirs, err := buildOptions(cfg, in)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	items := batch.Enumerate(urls, in.StartIndex)

	if in.DryRun {
		if err := printDryRun(cmd.OutOrStdout(), opts, subdirs, items); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		return nil
	}

	dlPath, err := findDownloader(in.DLBinary)
	if err != nil {
		return &ExitError{Code: ExitMissingDep, Err: err}
	}

	useTUI := !in.NoUI && isTerminal()
	logger := logging.New(cmd.ErrOrStderr(), in.Verbose)
	batchLogger := log.Interface(logger)
	if useTUI {
		batchLogger = logging.Discard()
	}
	logging.Install(logger)

	runnerOpts := []batch.Option{
		batch.WithEngine(newEngine(dlPath, !useTUI, batchLogger)),
		batch.WithLogger(batchLogger),
		batch.WithInterval(cfg.Advanced().ItemInterval),
	}
	if !in.NoHistory && cfg.Advanced().HistoryEnabled() {
		store, herr := openHistory()
		if herr != nil {
			logger.WithError(herr).Warn("history disabled")
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, batch.WithRecorder(store))
		}
	}

	filenameTpl := cfg.FilenameTemplate(in.Template)
	run := func(ctx context.Context, rep progress.Reporter) (batch.Summary, error) {
		r, err := batch.NewRunner(append(runnerOpts, batch.WithReporter(rep))...)
		if err != nil {
			return batch.Summary{}, err
		}
		return r.Run(ctx, items, opts, filenameTpl, subdirs), nil
	}

	var sum batch.Summary
	if useTUI {
		err = ui.Run(cmd.Context(), items, func(ctx context.Context, rep progress.Reporter) error {
			var rerr error
			sum, rerr = run(ctx, rep)
			return rerr
		})
	} else {
		sum, err = run(cmd.Context(), progress.Nop{})
	}
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return summarize(cmd.ErrOrStderr(), sum, len(items))
}

// summarize maps a finished batch onto an exit status.
func summarize(w io.Writer, sum batch.Summary, total int) error {
	failed := sum.Failed()
	for _, r := range failed {
		fmt.Fprintf(w, "failed #%d %s: %v\n", r.Index, r.URL, r.Err)
	}
	if sum.Err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("interrupted after %d of %d items: %w", len(sum.Results), total, sum.Err)}
	}
	if len(failed) > 0 {
		return &ExitError{Code: ExitItemsFailed, Err: fmt.Errorf("%d of %d items failed", len(failed), total)}
	}
	return nil
}

func printDryRun(w io.Writer, opts options.Options, subdirs config.Subdirs, items []batch.WorkItem) error {
	data, err := opts.YAML()
	if err != nil {
		return fmt.Errorf("render options: %w", err)
	}
	sub, err := yaml.Marshal(subdirs)
	if err != nil {
		return fmt.Errorf("render subdirs: %w", err)
	}

	fmt.Fprintln(w, "Resolved yt-dlp options:")
	fmt.Fprint(w, indent(string(data)))
	fmt.Fprintln(w, "Subdir templates:")
	fmt.Fprint(w, indent(string(sub)))
	fmt.Fprintf(w, "Sample outtmpl: %s\n", opts.String(options.KeyOuttmpl))
	fmt.Fprintln(w, "Items:")
	for _, it := range items {
		fmt.Fprintf(w, "  %d  %s\n", it.Index, it.URL)
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
