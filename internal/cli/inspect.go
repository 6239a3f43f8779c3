package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nativecapsule/nativecapsule/internal/caplet"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/jar"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/native"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	inspectCapsule string
	inspectOutput  string
	inspectFlags   buildFlags
)

var inspectCmd = &cobra.Command{
	Use:   "inspect -c <capsule.jar>",
	Short: "Show what a build would produce",
	Long: `Show a capsule's packaging attributes, the platforms and output base a build
would use, and the caplet chain a GUI build would write.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectCapsule, "capsule", "c", "", "Capsule pathname to inspect")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "text", "Output format: text or yaml")
	inspectCmd.Flags().StringVar(&inspectFlags.output, "base", "", "Output base path to resolve against")
	inspectCmd.Flags().StringSliceVar(&inspectFlags.platforms, "platform", nil, "Platforms a build would request")
	rootCmd.AddCommand(inspectCmd)
}

// inspection is the report printed by inspect.
type inspection struct {
	Capsule    string            `yaml:"capsule"`
	Name       string            `yaml:"name"`
	Version    string            `yaml:"version,omitempty"`
	ID         string            `yaml:"id"`
	GUI        bool              `yaml:"gui"`
	Platforms  []string          `yaml:"platforms"`
	OutputBase string            `yaml:"output_base"`
	Caplets    []string          `yaml:"caplets"`
	GUICaplets []string          `yaml:"gui_caplets,omitempty"`
	Attributes map[string]string `yaml:"attributes"`
	Valid      bool              `yaml:"valid"`
	Issues     []string          `yaml:"issues,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectCapsule == "" {
		return nerrors.NewValidationError("a capsule is required", "--capsule")
	}
	if inspectOutput != "text" && inspectOutput != "yaml" {
		return nerrors.NewValidationError(fmt.Sprintf("unknown output format %q", inspectOutput), "--output")
	}

	c, err := jar.ReadCapsule(inspectCapsule)
	if err != nil {
		return err
	}
	report, err := inspectCapsuleReport(c, inspectFlags, caplet.NewRegistry(settings.DependencyManagers...))
	if err != nil {
		return err
	}

	if inspectOutput == "yaml" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	}
	return writeInspectionText(cmd.OutOrStdout(), report)
}

func inspectCapsuleReport(c *manifest.Capsule, flags buildFlags, reg *caplet.Registry) (*inspection, error) {
	res, err := manifest.Validate(c)
	if err != nil {
		return nil, err
	}

	report := &inspection{
		Capsule:    c.Path,
		Name:       c.AppName(),
		Version:    c.AppVersion(),
		ID:         c.AppID(),
		GUI:        c.IsGUI(),
		Platforms:  native.Platforms(flags.requested(), c),
		OutputBase: native.OutputBase(flags.output, c),
		Caplets:    c.Caplets(),
		Attributes: map[string]string{},
		Valid:      res.Valid,
	}
	if report.GUI {
		report.GUICaplets = caplet.Rewrite(reg.Chain(c.Caplets()), true).Chain.Names()
	}
	for _, name := range c.Manifest.Main.Names() {
		report.Attributes[name] = c.Attr(name)
	}
	for _, issue := range res.Issues {
		if issue.Path != "" {
			report.Issues = append(report.Issues, issue.Path+": "+issue.Message)
			continue
		}
		report.Issues = append(report.Issues, issue.Message)
	}
	return report, nil
}

func writeInspectionText(out io.Writer, r *inspection) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Capsule:\t%s\n", r.Capsule)
	fmt.Fprintf(w, "Name:\t%s\n", r.Name)
	if r.Version != "" {
		fmt.Fprintf(w, "Version:\t%s\n", r.Version)
	}
	fmt.Fprintf(w, "ID:\t%s\n", r.ID)
	fmt.Fprintf(w, "GUI:\t%t\n", r.GUI)
	fmt.Fprintf(w, "Platforms:\t%s\n", strings.Join(r.Platforms, ", "))
	fmt.Fprintf(w, "Output base:\t%s\n", r.OutputBase)
	fmt.Fprintf(w, "Caplets:\t%s\n", joinOrNone(r.Caplets))
	if r.GUI {
		fmt.Fprintf(w, "GUI caplets:\t%s\n", joinOrNone(r.GUICaplets))
	}
	if r.Valid {
		fmt.Fprintf(w, "Valid:\tyes\n")
	} else {
		fmt.Fprintf(w, "Valid:\tno\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "\t%s\n", issue)
		}
	}
	return w.Flush()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, " ")
}
