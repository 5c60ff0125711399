package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"ytsave/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "config",
		Short:         "Print the merged configuration (defaults plus override document)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := config.Init(cmd, v); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			path := v.GetString("config")
			if path == "" {
				path = config.UserDocument()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			data, err := yaml.Marshal(cfg.Raw)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# override: %s\n", path)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
