package resources

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/nativecapsule/nativecapsule/internal/branding"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/output"
	"github.com/nativecapsule/nativecapsule/internal/platform"
	"github.com/nativecapsule/nativecapsule/internal/tempreg"
)

// Resource directories inside the tree.
const (
	BinDir     = "bin"
	LinkDir    = "w32api"
	HeadDir    = "head"
	CapletsDir = "caplets"
)

// PlaceholderMarker is present at the root of a tree whose files are
// stand-ins that must never be copied into an artifact.
const PlaceholderMarker = "PLACEHOLDER"

// IsPlaceholder reports whether src carries the placeholder marker.
func IsPlaceholder(src fs.FS) bool {
	_, err := fs.Stat(src, PlaceholderMarker)
	return err == nil
}

// LinkFiles are the w32api objects the executable wrapper links against.
var LinkFiles = []string{
	"crt2.o", "libadvapi32.a", "libgcc.a", "libkernel32.a", "libmingw32.a",
	"libmsvcrt.a", "libshell32.a", "libuser32.a",
}

// HeadFiles are the executable headers.
var HeadFiles = []string{"consolehead.o", "guihead.o", "head.o"}

// CapletClasses are the GUI caplet classes, relative to the tree root.
var CapletClasses = []string{
	"caplets/GUICapsule.class",
	"caplets/GUIMavenCapsule.class",
	"caplets/capsule/GUIDependencyManager.class",
	"caplets/capsule/GUIListener.class",
}

// Workspace is the directory set the wrapper tool runs against. BinDir is
// empty when the helper binaries are expected on PATH.
type Workspace struct {
	BaseDir string
	BinDir  string
	TmpDir  string
}

// Extractor copies resources out of a tree into temporary directories
// recorded in a registry.
type Extractor struct {
	src fs.FS
	reg *tempreg.Registry
}

// NewExtractor returns an extractor reading from src.
func NewExtractor(src fs.FS, reg *tempreg.Registry) *Extractor {
	return &Extractor{src: src, reg: reg}
}

// Caplets returns the subtree holding the GUI caplet classes.
func (e *Extractor) Caplets() (fs.FS, error) {
	if err := Usable(e.src); err != nil {
		return nil, err
	}
	sub, err := fs.Sub(e.src, CapletsDir)
	if err != nil {
		return nil, nerrors.Wrap(nerrors.ErrResourceExtraction, err, "opening bundled caplets")
	}
	return sub, nil
}

// Launch4J extracts everything the wrapper tool needs on a goos host: helper
// binaries, link objects and headers under a base directory, and a scratch
// directory.
func (e *Extractor) Launch4J(goos string) (*Workspace, error) {
	if err := Usable(e.src); err != nil {
		return nil, err
	}
	bin, err := e.ExtractBins(goos)
	if err != nil {
		return nil, err
	}
	base, err := e.tempDir("launch4j-")
	if err != nil {
		return nil, err
	}
	if err := e.ExtractFiles(LinkDir, LinkFiles, filepath.Join(base, LinkDir)); err != nil {
		return nil, err
	}
	if err := e.ExtractFiles(HeadDir, HeadFiles, filepath.Join(base, HeadDir)); err != nil {
		return nil, err
	}
	tmp, err := e.tempDir("launch4j-tmp-")
	if err != nil {
		return nil, err
	}
	output.Debug("Created launch4j scratch dir", "path", tmp)
	return &Workspace{BaseDir: base, BinDir: bin, TmpDir: tmp}, nil
}

// ExtractBins copies the helper binaries for the goos host into a fresh
// directory and marks them executable. Unix hosts other than Linux get no
// binaries; the tool then looks them up on PATH.
func (e *Extractor) ExtractBins(goos string) (string, error) {
	dir, bins, err := hostBins(goos)
	if err != nil {
		return "", err
	}
	if dir == "" {
		output.Warn("Detected non-Linux Unix platform, assuming launch4j's 'ld' and 'windres' can be found on the path", "os", goos)
		return "", nil
	}

	binDir, err := e.tempDir("launch4j-bin-")
	if err != nil {
		return "", err
	}
	output.Debug("Copying launch4j binaries", "bins", bins, "platform", dir, "dir", binDir)
	for _, name := range bins {
		dst, err := e.copy(path.Join(BinDir, dir, name), binDir)
		if err != nil {
			return "", err
		}
		if err := platform.EnsureExecutable(dst); err != nil {
			return "", nerrors.Wrap(nerrors.ErrPermission, err, "marking %s executable", dst)
		}
	}
	return binDir, nil
}

// hostBins returns the bin subdirectory and helper names for a goos host.
// The directory is empty when the host has no bundled helpers.
func hostBins(goos string) (string, []string, error) {
	family, err := platform.FamilyOf(goos)
	if err != nil {
		return "", nil, nerrors.NewUnsupportedPlatformError(goos)
	}
	switch {
	case family == platform.MacOS:
		return "mac", []string{"ld", "windres"}, nil
	case family == platform.Windows:
		return "windows", []string{"ld.exe", "windres.exe"}, nil
	case platform.IsLinux(goos):
		return "linux", []string{"ld", "windres"}, nil
	}
	return "", nil, nil
}

// Usable fails when src holds only placeholders.
func Usable(src fs.FS) error {
	if !IsPlaceholder(src) {
		return nil
	}
	return nerrors.Wrap(nerrors.ErrResourceExtraction, nil,
		"bundled resources are placeholders; set resources.dir to a tree with the real files")
}

// Missing lists the entries of src that a build on a goos host needs but
// cannot find. Every entry of a placeholder tree counts as missing.
func Missing(src fs.FS, goos string) ([]string, error) {
	dir, bins, err := hostBins(goos)
	if err != nil {
		return nil, err
	}
	var want []string
	if dir != "" {
		for _, b := range bins {
			want = append(want, path.Join(BinDir, dir, b))
		}
	}
	for _, f := range LinkFiles {
		want = append(want, path.Join(LinkDir, f))
	}
	for _, f := range HeadFiles {
		want = append(want, path.Join(HeadDir, f))
	}
	want = append(want, CapletClasses...)

	if IsPlaceholder(src) {
		return want, nil
	}
	var missing []string
	for _, name := range want {
		if _, err := fs.Stat(src, name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// ExtractFiles copies the named files of resource directory resDir into
// targetDir, replacing targetDir if it exists. targetDir is recorded in the
// registry.
func (e *Extractor) ExtractFiles(resDir string, names []string, targetDir string) error {
	output.Debug("Copying resources", "files", names, "from", resDir, "to", targetDir)
	if err := os.RemoveAll(targetDir); err != nil {
		return nerrors.Wrap(nerrors.ErrResourceExtraction, err, "clearing %s", targetDir)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nerrors.Wrap(nerrors.ErrResourceExtraction, err, "creating %s", targetDir)
	}
	if _, err := e.reg.Add(targetDir); err != nil {
		return nerrors.Wrap(nerrors.ErrResourceExtraction, err, "registering %s", targetDir)
	}
	for _, name := range names {
		if _, err := e.copy(path.Join(resDir, name), targetDir); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) tempDir(suffix string) (string, error) {
	dir, err := e.reg.TempDir(branding.TempPrefix() + suffix)
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrResourceExtraction, err, "creating temporary directory")
	}
	return dir, nil
}

func (e *Extractor) copy(name, targetDir string) (string, error) {
	in, err := e.src.Open(name)
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrResourceExtraction, err, "opening resource %s", name)
	}
	defer in.Close()

	dst := filepath.Join(targetDir, path.Base(name))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrResourceExtraction, err, "creating %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", nerrors.Wrap(nerrors.ErrResourceExtraction, err, "copying %s", name)
	}
	if err := out.Close(); err != nil {
		return "", nerrors.Wrap(nerrors.ErrResourceExtraction, err, "writing %s", dst)
	}
	return dst, nil
}

// String describes the workspace for logs.
func (w *Workspace) String() string {
	return fmt.Sprintf("base=%s bin=%s tmp=%s", w.BaseDir, w.BinDir, w.TmpDir)
}
