package cli

import (
	"fmt"

	"github.com/nativecapsule/nativecapsule/internal/branding"
	"github.com/nativecapsule/nativecapsule/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.

Keys:
  ` + config.KeyLogLevel + `                    debug, info, warn or error
  ` + config.KeyJavaCommand + `                 runtime run by the Unix shell header (default "java")
  ` + config.KeyWrapperCommand + `              launch4j command line tool (default "launch4jc")
  ` + config.KeyWrapperTimeout + `              time limit for one wrapper run (default 5m)
  ` + config.KeyResourcesDir + `                directory replacing the bundled resources
  ` + config.KeyDependencyManagers + `  caplets treated as dependency managers
  ` + config.KeyLegacyShortVersion + `   write CFBundleShortVersionString twice`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
		return nil
	},
}
