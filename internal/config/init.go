package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ytsave/internal/dirs"
)

// EnvPrefix prefixes every environment override, e.g. YTSAVE_SAVE_DIR.
const EnvPrefix = "YTSAVE"

// Init wires v with env and flag bindings for cmd. Flag names map to keys
// with dashes turned into underscores. Nothing is written to disk.
func Init(cmd *cobra.Command, v *viper.Viper) error {
	// .env in the working directory, if present; real env vars win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	bind := func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return bindErr
}

// UserDocument returns the override document path to use when none was given
// explicitly: <config dir>/config.yaml if it exists, else "".
func UserDocument() string {
	dir, err := dirs.ConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
