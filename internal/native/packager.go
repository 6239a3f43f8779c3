package native

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nativecapsule/nativecapsule/internal/caplet"
	"github.com/nativecapsule/nativecapsule/internal/config"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/output"
	"github.com/nativecapsule/nativecapsule/internal/platform"
	"github.com/nativecapsule/nativecapsule/internal/resources"
	"github.com/nativecapsule/nativecapsule/internal/tempreg"
	"github.com/nativecapsule/nativecapsule/internal/wrapper"
)

// Current is the platform id resolved to the host family at dispatch time.
const Current = "current"

var platformAliases = map[string]platform.Family{
	"macos":   platform.MacOS,
	"mac":     platform.MacOS,
	"macosx":  platform.MacOS,
	"darwin":  platform.MacOS,
	"linux":   platform.Unix,
	"unix":    platform.Unix,
	"windows": platform.Windows,
	"win":     platform.Windows,
}

// Artifact is one built platform artifact.
type Artifact struct {
	Platform platform.Family `json:"platform" yaml:"platform"`
	Path     string          `json:"path" yaml:"path"`
}

// Options configures a Packager. Zero fields take defaults.
type Options struct {
	// JavaCommand is the runtime the Unix shell header executes.
	JavaCommand string
	// LegacyShortVersion writes CFBundleShortVersionString twice, the app
	// version followed by a literal 1.0.
	LegacyShortVersion bool
	// Resources is the bundled resource tree (resources.Bundled when nil).
	Resources fs.FS
	// Tool wraps Windows executables.
	Tool wrapper.Tool
	// Caplets tags the capsule's caplet chain.
	Caplets *caplet.Registry
	// Registry collects temporary paths. It is released when Run returns.
	Registry *tempreg.Registry
	// HostOS is the GOOS used to resolve "current" and pick helper binaries.
	HostOS string
}

// OptionsFromSettings builds options from loaded configuration.
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		JavaCommand:        s.JavaCommand,
		LegacyShortVersion: s.LegacyShortVersion,
		Resources:          resources.Source(s.ResourcesDir),
		Tool:               &wrapper.Launch4j{Command: s.WrapperCommand, Timeout: s.WrapperTimeout},
		Caplets:            caplet.NewRegistry(s.DependencyManagers...),
	}
}

// Packager builds artifacts for one capsule.
type Packager struct {
	capsule *manifest.Capsule
	base    string
	opts    Options
}

// NewPackager returns a packager writing artifacts next to outputBase.
func NewPackager(c *manifest.Capsule, outputBase string, opts Options) *Packager {
	if opts.JavaCommand == "" {
		opts.JavaCommand = config.DefaultJavaCommand
	}
	if opts.Resources == nil {
		opts.Resources = resources.Bundled()
	}
	if opts.Tool == nil {
		opts.Tool = &wrapper.Launch4j{Command: config.DefaultWrapperCommand, Timeout: config.DefaultWrapperTimeout}
	}
	if opts.Caplets == nil {
		opts.Caplets = caplet.NewRegistry()
	}
	if opts.HostOS == "" {
		opts.HostOS = runtime.GOOS
	}
	return &Packager{capsule: c, base: outputBase, opts: opts}
}

// ParsePlatform normalizes a platform id. It returns Current unresolved.
func ParsePlatform(id string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == Current {
		return Current, nil
	}
	if f, ok := platformAliases[key]; ok {
		return string(f), nil
	}
	return "", nerrors.NewUnsupportedPlatformError(id)
}

// Resolve maps platform ids to families, resolving Current against the host.
// An empty list means the current platform.
func (p *Packager) Resolve(ids []string) ([]platform.Family, error) {
	if len(ids) == 0 {
		ids = []string{Current}
	}
	families := make([]platform.Family, 0, len(ids))
	for _, id := range ids {
		name, err := ParsePlatform(id)
		if err != nil {
			return nil, err
		}
		if name == Current {
			f, err := platform.FamilyOf(p.opts.HostOS)
			if err != nil {
				return nil, nerrors.NewUnsupportedPlatformError(p.opts.HostOS)
			}
			families = append(families, f)
			continue
		}
		families = append(families, platform.Family(name))
	}
	return families, nil
}

// Run builds one artifact per requested platform, in order. Every id is
// resolved before anything is built. The first failure stops the run;
// temporary files are removed either way.
func (p *Packager) Run(ctx context.Context, ids []string) (artifacts []Artifact, err error) {
	families, err := p.Resolve(ids)
	if err != nil {
		return nil, err
	}
	if p.needsResources(families) {
		if err := resources.Usable(p.opts.Resources); err != nil {
			return nil, err
		}
	}

	reg := p.opts.Registry
	if reg == nil {
		reg = tempreg.New()
	}
	defer func() {
		if rerr := reg.Release(); rerr != nil {
			output.Warn("Could not remove temporary files", "err", rerr)
		}
	}()

	b := &builder{
		capsule: p.capsule,
		opts:    p.opts,
		reg:     reg,
	}
	for _, f := range families {
		if err := ctx.Err(); err != nil {
			return artifacts, fmt.Errorf("build interrupted before %s: %w", f, err)
		}
		path, err := b.build(ctx, f, p.base)
		if err != nil {
			return artifacts, err
		}
		output.Info("Built native artifact", "platform", f, "path", path)
		artifacts = append(artifacts, Artifact{Platform: f, Path: path})
	}
	return artifacts, nil
}

// needsResources reports whether any build copies from the resource tree:
// GUI builds inject caplet classes and Windows builds run launch4j.
func (p *Packager) needsResources(families []platform.Family) bool {
	if p.capsule.IsGUI() {
		return true
	}
	for _, f := range families {
		if f == platform.Windows {
			return true
		}
	}
	return false
}

// Platforms returns the platform ids to build: explicit ids first, then the
// Native-Platforms attribute, then the current platform.
func Platforms(explicit []string, c *manifest.Capsule) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if ids := c.List(manifest.AttrNativePlatforms); len(ids) > 0 {
		return ids
	}
	return []string{Current}
}

// OutputBase returns the artifact base path: the explicit path, then the
// Native-Output attribute relative to the archive's directory, then the
// archive path without its .jar suffix.
func OutputBase(explicit string, c *manifest.Capsule) string {
	if explicit != "" {
		return explicit
	}
	if v := c.Attr(manifest.AttrNativeOutput); v != "" {
		if filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(filepath.Dir(c.Path), v)
	}
	return platform.TrimJarSuffix(c.Path)
}
