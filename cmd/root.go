package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configCmd "github.com/gddload/gddload/cmd/config"
	"github.com/gddload/gddload/cmd/download"
	"github.com/gddload/gddload/cmd/util"
	versionCmd "github.com/gddload/gddload/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "GDDLOAD_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	// Flags may also be supplied through GDDLOAD_* environment variables.
	viper.SetEnvPrefix("GDDLOAD")
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "gddload",
		Short:        "Mirror Google Drive files and folders with integrity checking",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		download.New(),
		versionCmd.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
