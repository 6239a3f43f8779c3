package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/nativecapsule/nativecapsule/internal/branding"
	"github.com/nativecapsule/nativecapsule/internal/config"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/resources"
	"github.com/spf13/cobra"
)

var (
	checkRuntime   bool
	checkResources bool
	checkCapsule   string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify the java and launch4j commands are on PATH")
	doctorCmd.Flags().BoolVar(&checkResources, "check-resources", false, "Verify the launch4j resources and GUI caplets are present")
	doctorCmd.Flags().StringVar(&checkCapsule, "check-capsule", "", "Validate the manifest of the capsule at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the packaging toolchain",
	Long: `Run diagnostic checks on the packaging environment: configuration, the java
and launch4j commands, and the resource tree used for Windows and GUI builds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if !checkRuntime && !checkResources && checkCapsule == "" {
			runConfigCheck(w)
			runRuntimeCheck(w)
			return runResourcesCheck(w)
		}

		if checkRuntime {
			runRuntimeCheck(w)
		}
		if checkResources {
			if err := runResourcesCheck(w); err != nil {
				return err
			}
		}
		if checkCapsule != "" {
			return runCapsuleCheck(w, checkCapsule)
		}
		return nil
	},
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [INFO] %s not found, using defaults\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
}

func runRuntimeCheck(w io.Writer) {
	fmt.Fprintln(w, "Runtime check:")
	checkBinary(w, settings.JavaCommand)
	checkBinary(w, settings.WrapperCommand)
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runResourcesCheck(w io.Writer) error {
	fmt.Fprintln(w, "Resources check:")
	origin := "embedded"
	if settings.ResourcesDir != "" {
		origin = settings.ResourcesDir
	}

	src := resources.Source(settings.ResourcesDir)
	missing, err := resources.Missing(src, runtime.GOOS)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	if len(missing) == 0 {
		fmt.Fprintf(w, "  [ OK ] %s resources complete for %s\n", origin, runtime.GOOS)
		return nil
	}
	if resources.IsPlaceholder(src) {
		fmt.Fprintf(w, "  [WARN] %s resources are placeholders; GUI and Windows builds will fail\n", origin)
	}
	for _, name := range missing {
		fmt.Fprintf(w, "  [MISS] %s (%s)\n", name, origin)
	}
	fmt.Fprintf(w, "         Set %s or %s to a complete resource tree\n",
		config.KeyResourcesDir, branding.EnvVar("RESOURCES_DIR"))
	return nil
}

func runCapsuleCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Capsule validation: %s\n", path)
	c, err := loadCapsule(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}

	name := c.AppName()
	if v := c.AppVersion(); v != "" {
		name += " (" + v + ")"
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", name)
	if c.IsGUI() {
		fmt.Fprintf(w, "  [INFO] %s is set, caplets will be rewritten for GUI builds\n", manifest.AttrGUI)
	}
	return nil
}
