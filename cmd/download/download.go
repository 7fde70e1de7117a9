package download

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gddload/gddload/cmd/util"
	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/mirror"
	"github.com/gddload/gddload/pkg/remote/drive"
	"github.com/gddload/gddload/pkg/term"
)

// Mocked for unit testing.
var parseUserConfig = config.ParseUser

type downloadCmd struct {
	noColor bool
}

// New creates a new `download` command.
func New() *cobra.Command {
	var cmd downloadCmd
	cobraCmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Mirror a Drive file or folder tree into a local directory",
		Long: `Recursively download the Drive entry with the given ID, mirroring its
folder structure under the save path and showing live per-file progress.

With --check (implied by --retry), each file's SHA-256 digest is verified
against Drive's before and after download. Files that already exist locally
and verify correctly are never re-fetched.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := cmd.run(args[0]); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	flags := cobraCmd.Flags()
	flags.String("save_path", "", `The directory to save the files under (default ".")`)
	flags.String("credentials", "", "Path to the service account key file")
	flags.Bool("check", false, "Verify the sha256 of each file before and after download")
	flags.Bool("overwrite", false,
		"Re-download files that already exist locally. If used with --check, "+
			"only files that fail verification are overwritten.")
	flags.Bool("force", false, "Download every file even if it already exists")
	flags.Int("retry", 0, "The number of extra download attempts after a failed check (implies --check)")
	flags.BoolVar(&cmd.noColor, "no-color", false, "Disable colored output")

	// Changed flags win over GDDLOAD_* environment variables, which win over
	// the user config file.
	for _, name := range []string{"save_path", "credentials", "check", "overwrite", "force", "retry"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	return cobraCmd
}

// resolveOptions merges the flag, environment, and user config values into
// the run options and the credentials path. Changed flags win over GDDLOAD_*
// environment variables (both read through viper), which win over
// ~/.gddload.yaml; the save path falls back to the current directory.
func resolveOptions(fileID string) (config.Options, string, error) {
	userConfig, err := parseUserConfig()
	if err != nil {
		if _, ok := errors.RootCause(err).(errors.FileNotFound); !ok {
			return config.Options{}, "", errors.WithContext(err, "parse user config")
		}
		userConfig = config.User{}
	}

	savePath := viper.GetString("save_path")
	if savePath == "" {
		savePath = userConfig.SavePath
	}
	if savePath == "" {
		savePath = "."
	}

	credentials := viper.GetString("credentials")
	if credentials == "" {
		credentials = userConfig.Credentials
	}
	if credentials == "" {
		return config.Options{}, "", errors.NewFriendlyError(
			"No service account credentials configured.\n" +
				"Pass --credentials, set GDDLOAD_CREDENTIALS, or run " +
				"`gddload config --credentials <key.json>`.")
	}

	opts, err := config.NewOptions(fileID, savePath,
		viper.GetBool("check"), viper.GetBool("overwrite"), viper.GetBool("force"),
		viper.GetInt("retry"))
	if err != nil {
		return config.Options{}, "", err
	}
	return opts, credentials, nil
}

func (cmd *downloadCmd) run(fileID string) error {
	opts, credentials, err := resolveOptions(fileID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := drive.New(ctx, credentials)
	if err != nil {
		return errors.WithContext(err, "connect to Drive")
	}

	clock := clockwork.NewRealClock()
	return mirror.Run(ctx, opts, store, term.NewScreen(), clock, !cmd.noColor)
}
