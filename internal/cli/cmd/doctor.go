package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytsave/internal/config"
	"ytsave/internal/dirs"
	"ytsave/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp, ffmpeg) and config locations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := config.Init(cmd, v); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			out := cmd.OutOrStdout()

			dl, derr := findDownloader(v.GetString("dl_binary"))
			if derr != nil {
				return &ExitError{Code: ExitMissingDep, Err: derr}
			}
			fmt.Fprintf(out, "yt-dlp:  %s\n", dl)

			if ff, ferr := deps.FindFFmpeg(); ferr != nil {
				fmt.Fprintf(out, "ffmpeg:  missing (%v)\n", ferr)
			} else {
				fmt.Fprintf(out, "ffmpeg:  %s\n", ff)
			}

			if dir, err := dirs.ConfigDir(); err == nil {
				fmt.Fprintf(out, "config:  %s\n", dir)
			}
			doc := v.GetString("config")
			if doc == "" {
				doc = config.UserDocument()
			}
			if doc != "" {
				fmt.Fprintf(out, "         using %s\n", doc)
			}
			if cfg, err := config.Load(doc); err != nil {
				fmt.Fprintf(out, "profiles: unavailable (%v)\n", err)
			} else {
				fmt.Fprintf(out, "profiles: %s\n", strings.Join(cfg.Profiles(), ", "))
			}
			if db, err := dirs.HistoryDB(); err == nil {
				fmt.Fprintf(out, "history: %s\n", db)
			}
			return nil
		},
	}
}
