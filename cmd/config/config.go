package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gddload/gddload/cmd/util"
	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	parseUserConfig           = config.ParseUser
	writeUserConfig           = config.WriteUser
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the gddload user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Credentials, "credentials", "",
		"Set the service account key file used for Drive access.")
	cmd.Flags().StringVar(&cliOpts.SavePath, "save_path", "",
		"Set the default directory downloads are saved under.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-credentials",
			short: "Get the currently configured credentials path",
			fn:    func(cfg config.User) string { return cfg.Credentials },
		},
		{
			use:   "get-save-path",
			short: "Get the currently configured default save path",
			fn:    func(cfg config.User) string { return cfg.SavePath },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}
	return cmd
}

// SetupConfig merges the given fields into the existing user config and
// writes it back to disk.
func SetupConfig(cliOpts config.User) error {
	cfg, err := parseUserConfig()
	if err != nil {
		if _, ok := errors.RootCause(err).(errors.FileNotFound); !ok {
			return errors.WithContext(err, "parse existing config")
		}
		cfg = config.User{}
	}

	if cliOpts.Credentials != "" {
		cfg.Credentials = cliOpts.Credentials
	}
	if cliOpts.SavePath != "" {
		cfg.SavePath = cliOpts.SavePath
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}
	fmt.Fprintf(stdout, "Wrote configuration to %s\n", path)
	return nil
}
