package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MOTIONCTL"

var exampleUsage = strings.TrimSpace(`
  motionctl validate variants.yaml
  motionctl merge variants.toml hidden shown
  motionctl merge variants.yaml shown hover --event --reverse
  motionctl simulate script.yaml --max-frames 600 --metrics
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app holds what every subcommand shares. Settings come from flags, then
// MOTIONCTL_* environment variables, then an optional config file.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "motionctl",
		Short:         "Inspect keyframe variants and simulate presence scripts",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd.ErrOrStderr()); err != nil {
				return err
			}
			cmd.Flags().Visit(func(f *pflag.Flag) {
				a.log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
			})
			return nil
		},
	}
	root.PersistentFlags().StringP("config", "c", "", "config file (yaml or toml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("debug", false, "enable motion debug checks")
	_ = a.v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = a.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(
		newValidateCmd(a),
		newMergeCmd(a),
		newSimulateCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	a.v.SetEnvPrefix(envPrefix)
	// MOTIONCTL_MAX_FRAMES for max-frames
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
	return nil
}
