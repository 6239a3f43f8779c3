package manifest

import (
	"path/filepath"
	"strings"
)

// Capsule is the read-only view of a source application archive: its path
// and the attributes of its manifest main section.
type Capsule struct {
	Path     string
	Manifest *Manifest
}

// NewCapsule wraps a parsed manifest for the archive at path.
func NewCapsule(path string, m *Manifest) *Capsule {
	if m == nil {
		m = New()
	}
	return &Capsule{Path: path, Manifest: m}
}

// Has reports whether the attribute is present.
func (c *Capsule) Has(name string) bool {
	_, ok := c.Manifest.Main.Get(name)
	return ok
}

// Attr returns the attribute value, or "" when absent.
func (c *Capsule) Attr(name string) string {
	v, _ := c.Manifest.Main.Get(name)
	return strings.TrimSpace(v)
}

// Bool returns a boolean attribute; absent or unparseable values are false.
func (c *Capsule) Bool(name string) bool {
	return strings.EqualFold(c.Attr(name), "true")
}

// List returns a whitespace-separated list attribute.
func (c *Capsule) List(name string) []string {
	return c.Manifest.List(name)
}

// SimpleName returns the archive file name without a ".jar" suffix.
func (c *Capsule) SimpleName() string {
	name := filepath.Base(c.Path)
	if strings.HasSuffix(name, ".jar") {
		return strings.TrimSuffix(name, ".jar")
	}
	return name
}

// AppName returns Application-Name, falling back to the simple archive name.
func (c *Capsule) AppName() string {
	if name := c.Attr(AttrAppName); name != "" {
		return name
	}
	return c.SimpleName()
}

// AppVersion returns Application-Version, or "" when absent.
func (c *Capsule) AppVersion() string {
	return c.Attr(AttrAppVersion)
}

// AppID identifies the application: "<name>" or "<name>_<version>".
func (c *Capsule) AppID() string {
	if v := c.AppVersion(); v != "" {
		return c.AppName() + "_" + v
	}
	return c.AppName()
}

// IsGUI reports whether the GUI attribute is true.
func (c *Capsule) IsGUI() bool {
	return c.Bool(AttrGUI)
}

// Caplets returns the configured caplet chain.
func (c *Capsule) Caplets() []string {
	return c.List(AttrCaplets)
}
