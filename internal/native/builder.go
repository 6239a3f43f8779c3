package native

import (
	"context"
	"errors"
	"io/fs"

	"github.com/nativecapsule/nativecapsule/internal/caplet"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/jar"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/platform"
	"github.com/nativecapsule/nativecapsule/internal/resources"
	"github.com/nativecapsule/nativecapsule/internal/tempreg"
)

// builder carries the state shared by the platform builds of one run.
type builder struct {
	capsule *manifest.Capsule
	opts    Options
	reg     *tempreg.Registry
}

func (b *builder) build(ctx context.Context, f platform.Family, base string) (string, error) {
	switch f {
	case platform.Unix:
		return b.buildUnix(base)
	case platform.MacOS:
		return b.buildMacOS(base)
	case platform.Windows:
		return b.buildWindows(ctx, base)
	default:
		return "", nerrors.NewUnsupportedPlatformError(string(f))
	}
}

func (b *builder) extractor() *resources.Extractor {
	return resources.NewExtractor(b.opts.Resources, b.reg)
}

// writeExecutableJar copies the capsule to out behind a shell header,
// applies the GUI caplet rewrite when needed and marks out executable.
// prepare runs against the open archive before anything is written.
func (b *builder) writeExecutableJar(out string, prepare func(*jar.Jar) error) error {
	j, err := jar.Open(b.capsule.Path)
	if err != nil {
		return err
	}
	defer j.Discard()

	j.SetOutput(out)
	if prepare != nil {
		if err := prepare(j); err != nil {
			return err
		}
	}
	if err := j.SetUnixShebangPrefix(b.opts.JavaCommand); err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveFormat, err, "prefixing %s", out)
	}
	if b.capsule.IsGUI() {
		if err := b.makeGUI(j); err != nil {
			return err
		}
	}
	if err := j.Close(); err != nil {
		return err
	}
	if err := platform.EnsureExecutable(out); err != nil {
		return nerrors.Wrap(nerrors.ErrPermission, err, "marking %s executable", out)
	}
	return nil
}

// makeGUI rewrites the caplet chain of j for a GUI launch.
func (b *builder) makeGUI(j *jar.Jar) error {
	chain := b.opts.Caplets.Chain(b.capsule.Caplets())
	res := caplet.Rewrite(chain, true)

	classes, err := b.extractor().Caplets()
	if err != nil {
		return err
	}
	return caplet.Apply(j, res, classes)
}

// readIcon returns the archive entry name+suffix, or nil when the capsule
// has no icon or the entry is missing.
func readIcon(j *jar.Jar, c *manifest.Capsule, suffix string) (string, []byte, error) {
	icon := c.Attr(manifest.AttrIcon)
	if icon == "" {
		return "", nil, nil
	}
	name := icon + suffix
	data, err := j.ReadEntry(name)
	if errors.Is(err, fs.ErrNotExist) {
		return name, nil, nil
	}
	if err != nil {
		return name, nil, nerrors.Wrap(nerrors.ErrArchiveIO, err, "reading icon %s", name)
	}
	return name, data, nil
}
