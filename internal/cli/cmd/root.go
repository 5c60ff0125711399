package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ytsave/internal/profiles"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitNoURLs      = 2
	ExitMissingDep  = 3
	ExitItemsFailed = 4
)

// impersonateTargets are the values accepted by --impersonate.
var impersonateTargets = []string{"chrome", "chrome_120", "edge", "firefox", "safari"}

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ytsave [urls...]",
		Short: "Opinionated yt-dlp wrapper",
		Long: "ytsave downloads videos and playlists with yt-dlp using a layered YAML config: " +
			"clean file names, subtitles, metadata, polite request pacing and a download archive. " +
			"Each video gets its own directory; playlists nest one level deeper.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          runExecute,
	}

	// Persistent flags available to all subcommands
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Path to YAML config to override defaults")
	pf.BoolP("verbose", "v", false, "Debug logging, including yt-dlp command lines")
	pf.String("dl-binary", "", "Path to yt-dlp")
	pf.Bool("no-history", false, "Do not record item outcomes")

	bindRunFlags(root.Flags())

	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.StringP("urls-file", "U", "", "Path to a text file with one URL per line")
	fs.StringP("profile", "p", profiles.WebM, fmt.Sprintf("Download profile: %s", strings.Join(profiles.Names(), ", ")))
	fs.StringP("save-dir", "P", "", "Output directory (overrides config)")
	fs.StringP("template", "t", "", "Filename template relative to the item directory; {idx} is the item number")
	fs.Int("start-index", 1, "Starting index for {idx}")
	fs.String("per-item-subdir", "", "Directory template for each video (yt-dlp fields)")
	fs.String("per-playlist-subdir", "", "Directory template for a playlist root (yt-dlp fields)")
	fs.String("cookies-from-browser", "", "BROWSER[:PROFILE], e.g. 'chrome' or 'chrome:Profile 1'")
	fs.String("cookies", "", "Path to cookies.txt (Netscape format)")
	fs.String("impersonate", "", fmt.Sprintf("Browser TLS fingerprint to mimic: %s", strings.Join(impersonateTargets, ", ")))
	fs.Bool("yt-skip-authcheck", false, "For YouTube playlists: add youtubetab:skip=authcheck to extractor args")
	fs.Bool("dry-run", false, "Show resolved yt-dlp options and exit")
	fs.Bool("no-ui", false, "Disable TUI; use plain log output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
