package cli

import (
	"fmt"

	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/jar"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/native"
	"github.com/spf13/cobra"
)

// buildFlags holds the options shared by the root and build commands.
type buildFlags struct {
	capsule   string
	output    string
	macos     bool
	unix      bool
	windows   bool
	platforms []string
}

var buildOpts buildFlags

var buildCmd = &cobra.Command{
	Use:   "build -c <capsule.jar>",
	Short: "Build native artifacts for a capsule",
	Long: `Build native artifacts for a capsule archive.

Unix:     <output>       the archive behind a shell header, marked executable
Mac OS X: <output>.app   an application bundle
Windows:  <output>.exe   an executable produced by launch4j

The output base defaults to the capsule's Native-Output attribute (relative
to the capsule's directory), then to the capsule path without ".jar".`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&buildOpts.capsule, "capsule", "c", "", "A single capsule pathname to build native binaries for")
	f.StringVarP(&buildOpts.output, "output", "o", "", "Output base path for the built artifacts")
	f.BoolVarP(&buildOpts.macos, "macosx", "m", false, "Build Mac OS X binary")
	f.BoolVarP(&buildOpts.unix, "unix", "u", false, "Build Unix binary")
	f.BoolVarP(&buildOpts.windows, "windows", "w", false, "Build Windows binary")
	f.StringSliceVar(&buildOpts.platforms, "platform", nil, "Platforms to build (macos, linux, unix, windows, current)")
}

// requested returns the platform ids named on the command line.
func (b buildFlags) requested() []string {
	var ids []string
	if b.macos {
		ids = append(ids, "macos")
	}
	if b.unix {
		ids = append(ids, "unix")
	}
	if b.windows {
		ids = append(ids, "windows")
	}
	return append(ids, b.platforms...)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOpts.capsule == "" {
		if !cmd.HasParent() && buildOpts.output == "" && len(buildOpts.requested()) == 0 {
			return cmd.Help()
		}
		return nerrors.NewValidationError("a capsule is required", "--capsule")
	}

	c, err := loadCapsule(buildOpts.capsule)
	if err != nil {
		return err
	}

	base := native.OutputBase(buildOpts.output, c)
	ids := native.Platforms(buildOpts.requested(), c)

	p := native.NewPackager(c, base, native.OptionsFromSettings(settings))
	artifacts, err := p.Run(cmd.Context(), ids)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, a := range artifacts {
		fmt.Fprintf(out, "%-8s %s\n", a.Platform, a.Path)
	}
	return nil
}

// loadCapsule reads and validates the capsule at path.
func loadCapsule(path string) (*manifest.Capsule, error) {
	c, err := jar.ReadCapsule(path)
	if err != nil {
		return nil, err
	}
	res, err := manifest.Validate(c)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, nerrors.NewValidationError(res.Summary(), path)
	}
	return c, nil
}
