package cmd

import (
	logger "github.com/haydenwalker/envseal/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	rootCmd = &cobra.Command{
		Use:   "envseal",
		Short: "Manage the encryption state of .env files in a directory tree",
		Long: `Envseal finds every .env file under a directory and encrypts each one
to a sibling .env.gpg for a GPG recipient, decrypts them back, or deletes
the plaintext copies after confirmation.

Individual file failures never abort a batch and never change the exit
code; read the log output and the summary counts to spot them. The exit
code is nonzero only for configuration errors, such as a missing
directory or recipient, or when gpg itself is not installed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Logger initialized with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	addVerbosityFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

// addVerbosityFlags registers the shared logging flags on a flag set.
func addVerbosityFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	fs.BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all flag variables to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetCleanCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
