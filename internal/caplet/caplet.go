package caplet

import (
	"strings"
)

// Capability is a bit set of the roles a caplet plays in the chain.
type Capability uint8

const (
	// DependencyManager caplets look up and resolve dependency attributes.
	DependencyManager Capability = 1 << iota
	// GUIDependencyManager caplets resolve dependencies and report progress
	// to the GUI front end.
	GUIDependencyManager
	// GUIFrontEnd caplets show the launch window.
	GUIFrontEnd
)

// Names of the caplets bundled with this tool.
const (
	MavenCapsule    = "MavenCapsule"
	GUIMavenCapsule = "GUIMavenCapsule"
	GUICapsule      = "GUICapsule"

	mavenArtifactID = "capsule-maven"
)

func (c Capability) String() string {
	var parts []string
	if c&DependencyManager != 0 {
		parts = append(parts, "dependency-manager")
	}
	if c&GUIDependencyManager != 0 {
		parts = append(parts, "gui-dependency-manager")
	}
	if c&GUIFrontEnd != 0 {
		parts = append(parts, "gui-front-end")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Caplet is one entry of the chain.
type Caplet struct {
	Name string
	Caps Capability
}

// Is reports whether the caplet carries every bit of caps.
func (c Caplet) Is(caps Capability) bool {
	return caps != 0 && c.Caps&caps == caps
}

// Chain is an ordered caplet list.
type Chain []Caplet

// Names returns the caplet names in chain order.
func (ch Chain) Names() []string {
	names := make([]string, len(ch))
	for i, c := range ch {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether a caplet with the given name is in the chain.
func (ch Chain) Contains(name string) bool {
	for _, c := range ch {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Registry assigns capability tags to caplet names.
type Registry struct {
	known map[string]Capability
}

// NewRegistry returns a registry holding the bundled caplets plus any extra
// names that should be treated as dependency managers.
func NewRegistry(dependencyManagers ...string) *Registry {
	r := &Registry{known: map[string]Capability{
		MavenCapsule:    DependencyManager,
		GUIMavenCapsule: DependencyManager | GUIDependencyManager,
		GUICapsule:      GUIFrontEnd,
	}}
	for _, name := range dependencyManagers {
		r.Register(name, DependencyManager)
	}
	return r
}

// Register tags name with caps, merging with any tags it already has.
func (r *Registry) Register(name string, caps Capability) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	r.known[name] |= caps
}

// Resolve returns the tagged caplet for name. Maven coordinates
// (group:artifact[:version]) whose artifact is capsule-maven resolve as
// dependency managers; unknown names carry no capabilities.
func (r *Registry) Resolve(name string) Caplet {
	if caps, ok := r.known[name]; ok {
		return Caplet{Name: name, Caps: caps}
	}
	if parts := strings.Split(name, ":"); len(parts) >= 2 && parts[1] == mavenArtifactID {
		return Caplet{Name: name, Caps: DependencyManager}
	}
	return Caplet{Name: name}
}

// Chain resolves every name in order.
func (r *Registry) Chain(names []string) Chain {
	ch := make(Chain, 0, len(names))
	for _, n := range names {
		ch = append(ch, r.Resolve(n))
	}
	return ch
}
