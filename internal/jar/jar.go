package jar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/output"
)

// ErrPrefixAlreadySet is returned when a prefix is applied twice to one Jar.
var ErrPrefixAlreadySet = errors.New("archive prefix already set")

// ErrClosed is returned when mutating a Jar after Close or Discard.
var ErrClosed = errors.New("archive already closed")

// ShebangPrefix returns the shell header that makes an archive directly
// executable by running it with the given runtime command.
func ShebangPrefix(runtime string) []byte {
	return []byte("#!/bin/sh\n\nexec " + runtime + " -jar $0 \"$@\"\n")
}

type addedEntry struct {
	name string
	data []byte
}

// Jar is a working copy of a source archive.
type Jar struct {
	source    string
	output    string
	reader    *zip.ReadCloser
	manifest  *manifest.Manifest
	dirty     bool
	prefix    []byte
	hasPrefix bool
	added     []addedEntry
	closed    bool
}

// Open reads the archive at sourcePath and its manifest.
func Open(sourcePath string) (*Jar, error) {
	r, err := zip.OpenReader(sourcePath)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, nerrors.Wrap(nerrors.ErrArchiveFormat, err, "reading archive %s", sourcePath)
		}
		return nil, nerrors.Wrap(nerrors.ErrArchiveIO, err, "opening archive %s", sourcePath)
	}

	j := &Jar{source: sourcePath, reader: r}
	for _, f := range r.File {
		if f.Name != manifest.Path {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			r.Close()
			return nil, nerrors.Wrap(nerrors.ErrArchiveIO, err, "reading %s in %s", manifest.Path, sourcePath)
		}
		m, err := manifest.Parse(data)
		if err != nil {
			r.Close()
			return nil, nerrors.Wrap(nerrors.ErrArchiveFormat, err, "parsing %s in %s", manifest.Path, sourcePath)
		}
		j.manifest = m
		break
	}
	return j, nil
}

// ReadCapsule opens sourcePath only to read its manifest. An archive without
// a manifest yields a capsule with no attributes.
func ReadCapsule(sourcePath string) (*manifest.Capsule, error) {
	j, err := Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer j.Discard()
	return manifest.NewCapsule(sourcePath, j.manifest), nil
}

// Source returns the source archive path.
func (j *Jar) Source() string { return j.source }

// Output returns the path Close writes to.
func (j *Jar) Output() string {
	if j.output == "" {
		return j.source
	}
	return j.output
}

// HasManifest reports whether the source archive carries a manifest.
func (j *Jar) HasManifest() bool { return j.manifest != nil }

// Manifest returns the working manifest, or nil when the archive has none.
func (j *Jar) Manifest() *manifest.Manifest { return j.manifest }

// SetOutput directs Close to write to path instead of the source.
func (j *Jar) SetOutput(path string) *Jar {
	j.output = path
	return j
}

// SetPrefix places raw bytes before the archive data. It may be called once.
func (j *Jar) SetPrefix(prefix []byte) error {
	if j.closed {
		return ErrClosed
	}
	if j.hasPrefix {
		return ErrPrefixAlreadySet
	}
	j.prefix = append([]byte(nil), prefix...)
	j.hasPrefix = true
	return nil
}

// SetUnixShebangPrefix prefixes the archive with a shell header that runs
// the archive itself with the given runtime command.
func (j *Jar) SetUnixShebangPrefix(runtime string) error {
	output.Debug("Setting JAR prefix as native Unix executable", "runtime", runtime)
	return j.SetPrefix(ShebangPrefix(runtime))
}

// SetListAttribute replaces a list-valued main-section manifest attribute.
func (j *Jar) SetListAttribute(name string, values []string) error {
	if j.closed {
		return ErrClosed
	}
	if !j.HasManifest() {
		return nerrors.Wrap(nerrors.ErrArchiveFormat, nil, "setting %s: %s has no manifest", name, j.source)
	}
	j.manifest.SetList(name, values)
	j.dirty = true
	return nil
}

// AddEntry adds or replaces the entry name with the content of r.
func (j *Jar) AddEntry(name string, r io.Reader) error {
	if j.closed {
		return ErrClosed
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "reading entry %s", name)
	}
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	for i := range j.added {
		if j.added[i].name == name {
			j.added[i].data = data
			return nil
		}
	}
	j.added = append(j.added, addedEntry{name: name, data: data})
	return nil
}

// AddClass copies the compiled class className (dotted form) from src.
func (j *Jar) AddClass(src fs.FS, className string) error {
	name := strings.ReplaceAll(className, ".", "/") + ".class"
	return j.addFromFS(src, name)
}

// AddPackage copies every file under dir in src whose slash-separated path
// matches pattern. It returns the number of entries added.
func (j *Jar) AddPackage(src fs.FS, dir string, pattern *regexp.Regexp) (int, error) {
	count := 0
	err := fs.WalkDir(src, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !pattern.MatchString(path) {
			return nil
		}
		if err := j.addFromFS(src, path); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, nerrors.Wrap(nerrors.ErrResourceExtraction, err, "adding package %s", dir)
	}
	return count, nil
}

func (j *Jar) addFromFS(src fs.FS, name string) error {
	f, err := src.Open(name)
	if err != nil {
		return nerrors.Wrap(nerrors.ErrResourceExtraction, err, "opening bundled resource %s", name)
	}
	defer f.Close()
	output.Debug("Adding archive entry", "name", name)
	return j.AddEntry(name, f)
}

// ReadEntry returns the content of name, looking at added entries first and
// then at the source archive. Missing entries wrap fs.ErrNotExist.
func (j *Jar) ReadEntry(name string) ([]byte, error) {
	for _, a := range j.added {
		if a.name == name {
			return a.data, nil
		}
	}
	if j.reader == nil {
		return nil, ErrClosed
	}
	for _, f := range j.reader.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, fmt.Errorf("entry %s in %s: %w", name, j.source, fs.ErrNotExist)
}

// Close writes the archive to its output path and releases the source.
// The write goes to a sibling temporary file renamed into place, so a
// failed build never leaves a truncated artifact.
func (j *Jar) Close() error {
	if j.closed {
		return ErrClosed
	}
	defer j.Discard()

	out := j.Output()
	dir := filepath.Dir(out)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(out)+".tmp-*")
	if err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "creating %s", out)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := j.writeTo(tmp); err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing %s", out)
	}
	if err := tmp.Close(); err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing %s", out)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing %s", out)
	}
	if err := os.Rename(tmpPath, out); err != nil {
		return nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing %s", out)
	}
	committed = true

	output.Debug("Wrote archive", "path", out, "prefixed", j.hasPrefix, "added", len(j.added))
	return nil
}

// Discard releases the source archive without writing. It is safe to call
// after Close and more than once.
func (j *Jar) Discard() {
	j.closed = true
	if j.reader != nil {
		j.reader.Close()
		j.reader = nil
	}
}

func (j *Jar) writeTo(w io.Writer) error {
	if _, err := w.Write(j.prefix); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	zw.SetOffset(int64(len(j.prefix)))

	pending := make(map[string]int, len(j.added))
	for i, a := range j.added {
		pending[a.name] = i
	}

	for _, f := range j.reader.File {
		switch {
		case f.Name == manifest.Path && j.manifest != nil && j.dirty:
			delete(pending, f.Name)
			if err := writeEntry(zw, f.Name, j.manifest.Encode()); err != nil {
				return err
			}
		case hasKey(pending, f.Name):
			idx := pending[f.Name]
			delete(pending, f.Name)
			if err := writeEntry(zw, f.Name, j.added[idx].data); err != nil {
				return err
			}
		default:
			if err := copyEntry(zw, f); err != nil {
				return err
			}
		}
	}

	for _, a := range j.added {
		if _, ok := pending[a.name]; !ok {
			continue
		}
		if err := writeEntry(zw, a.name, a.data); err != nil {
			return err
		}
	}

	return zw.Close()
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fh := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	fh.SetMode(0o644)
	w, err := zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing entry %s: %w", name, err)
	}
	return nil
}

func copyEntry(zw *zip.Writer, f *zip.File) error {
	fh := &zip.FileHeader{
		Name:          f.Name,
		Comment:       f.Comment,
		Method:        f.Method,
		Modified:      f.Modified,
		ExternalAttrs: f.ExternalAttrs,
	}
	if strings.HasSuffix(f.Name, "/") {
		fh.Method = zip.Store
		_, err := zw.CreateHeader(fh)
		return err
	}

	w, err := zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", f.Name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copying entry %s: %w", f.Name, err)
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
