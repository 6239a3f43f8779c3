package caplet

import (
	"io/fs"
	"regexp"

	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/output"
)

// guiSupportPattern selects the classes GUIMavenCapsule needs at launch.
var guiSupportPattern = regexp.MustCompile(`^capsule/((GUIDependencyManager)|(GUIListener)).*$`)

const guiSupportPackage = "capsule"

// Result is the outcome of a chain rewrite.
type Result struct {
	Chain                 Chain
	GUI                   bool
	UsesDependencyManager bool
}

// Rewrite returns the chain to persist for a build. Non-GUI builds keep the
// chain as is. GUI builds get the GUI front end appended, every
// dependency-manager caplet removed and, if one was removed, the GUI-aware
// dependency manager appended in its place.
func Rewrite(chain Chain, gui bool) Result {
	if !gui {
		out := make(Chain, len(chain))
		copy(out, chain)
		return Result{Chain: out}
	}

	res := Result{GUI: true}
	out := make(Chain, 0, len(chain)+2)
	for _, c := range chain {
		switch {
		case c.Is(DependencyManager):
			res.UsesDependencyManager = true
		case c.Is(GUIFrontEnd):
			// re-appended below
		default:
			out = append(out, c)
		}
	}
	out = append(out, Caplet{Name: GUICapsule, Caps: GUIFrontEnd})
	if res.UsesDependencyManager {
		out = append(out, Caplet{Name: GUIMavenCapsule, Caps: DependencyManager | GUIDependencyManager})
	}
	res.Chain = out
	return res
}

// Archive is the subset of the archive mutator a rewrite is applied to.
type Archive interface {
	SetListAttribute(name string, values []string) error
	AddClass(src fs.FS, className string) error
	AddPackage(src fs.FS, dir string, pattern *regexp.Regexp) (int, error)
}

// Apply persists the rewritten chain and copies the classes it needs from
// bundled. A non-GUI result leaves the archive untouched.
func Apply(a Archive, res Result, bundled fs.FS) error {
	if !res.GUI {
		return nil
	}

	names := res.Chain.Names()
	output.Debug("Rewriting caplets", "caplets", names)
	if err := a.SetListAttribute(manifest.AttrCaplets, names); err != nil {
		return err
	}
	if err := a.AddClass(bundled, GUICapsule); err != nil {
		return err
	}
	if !res.UsesDependencyManager {
		return nil
	}

	if err := a.AddClass(bundled, GUIMavenCapsule); err != nil {
		return err
	}
	n, err := a.AddPackage(bundled, guiSupportPackage, guiSupportPattern)
	if err != nil {
		return err
	}
	if n == 0 {
		return nerrors.Wrap(nerrors.ErrResourceExtraction, nil, "no %s classes matched %s in bundled caplets", guiSupportPackage, guiSupportPattern)
	}
	return nil
}
