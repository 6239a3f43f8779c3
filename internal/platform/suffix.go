package platform

import (
	"path/filepath"
	"strings"
)

// WithSuffix returns path with suffix appended unless its file name already
// ends with it.
func WithSuffix(path, suffix string) string {
	if strings.HasSuffix(filepath.Base(path), suffix) {
		return path
	}
	return path + suffix
}

// TrimJarSuffix strips a trailing ".jar" (case-insensitive) from name.
func TrimJarSuffix(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".jar") {
		return name[:len(name)-len(".jar")]
	}
	return name
}
