package cli

import (
	"github.com/nativecapsule/nativecapsule/internal/branding"
	"github.com/nativecapsule/nativecapsule/internal/config"
	"github.com/nativecapsule/nativecapsule/internal/output"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logLevel string
	verbose  bool
	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " -c <capsule.jar> [flags]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` builds native launchers for a capsule archive: a self-executing
Unix file, a Mac OS X application bundle, and a Windows executable.

With no platform flags, the platforms listed in the capsule's Native-Platforms
attribute are built, or the current platform if there are none.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		settings = config.Load()
		level := settings.LogLevel
		if cmd.Flags().Changed("loglevel") {
			level = logLevel
		}
		output.SetupLogging(output.LogConfig{Level: level, Verbose: verbose})
	},
	RunE: runBuild,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging with timestamps and caller info")
	addBuildFlags(rootCmd)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
