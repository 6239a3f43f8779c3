package manifest

import "strings"

// Path is the location of the manifest inside an archive.
const Path = "META-INF/MANIFEST.MF"

// Capsule attribute names read from the manifest main section.
const (
	AttrManifestVersion      = "Manifest-Version"
	AttrAppName              = "Application-Name"
	AttrAppVersion           = "Application-Version"
	AttrIcon                 = "Icon"
	AttrGUI                  = "GUI"
	AttrSingleInstance       = "Single-Instance"
	AttrImplementationVendor = "Implementation-Vendor"
	AttrNativeDescription    = "Native-Description"
	AttrCopyright            = "Copyright"
	AttrInternalName         = "Internal-Name"
	AttrMinJavaVersion       = "Min-Java-Version"
	AttrJavaVersion          = "Java-Version"
	AttrJDKRequired          = "JDK-Required"
	AttrNativePlatforms      = "Native-Platforms"
	AttrNativeOutput         = "Native-Output"
	AttrCaplets              = "Caplets"
)

// BoolAttributes lists attributes holding true/false values.
var BoolAttributes = []string{AttrGUI, AttrSingleInstance, AttrJDKRequired}

// ListAttributes lists attributes holding whitespace-separated lists.
var ListAttributes = []string{AttrNativePlatforms, AttrCaplets}

// Attributes is an ordered, case-insensitive set of manifest attributes.
type Attributes struct {
	names  []string          // original spelling, in order
	values map[string]string // lower-cased name -> value
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Get returns the value of name and whether it is present.
func (a *Attributes) Get(name string) (string, bool) {
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// Set replaces the value of name in place, or appends it when absent.
func (a *Attributes) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := a.values[key]; !ok {
		a.names = append(a.names, name)
	}
	a.values[key] = value
}

// Delete removes name if present.
func (a *Attributes) Delete(name string) {
	key := strings.ToLower(name)
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, n := range a.names {
		if strings.ToLower(n) == key {
			a.names = append(a.names[:i], a.names[i+1:]...)
			break
		}
	}
}

// Names returns attribute names in manifest order.
func (a *Attributes) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.names)
}

// Section is a named per-entry manifest section.
type Section struct {
	Name  string
	Attrs *Attributes
}

// Manifest is a parsed JAR manifest.
type Manifest struct {
	Main     *Attributes
	Sections []Section
}

// New returns a manifest with an empty main section.
func New() *Manifest {
	return &Manifest{Main: NewAttributes()}
}

// SetList stores values as a space-separated list attribute. An empty list
// removes the attribute.
func (m *Manifest) SetList(name string, values []string) {
	if len(values) == 0 {
		m.Main.Delete(name)
		return
	}
	m.Main.Set(name, strings.Join(values, " "))
}

// List returns a whitespace-separated attribute split into its values, or
// nil when the attribute is absent.
func (m *Manifest) List(name string) []string {
	v, ok := m.Main.Get(name)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}
