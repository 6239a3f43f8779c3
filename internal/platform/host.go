package platform

import (
	"fmt"
)

// Family is a target OS family for native artifacts.
type Family string

// Supported families.
const (
	MacOS   Family = "macos"
	Unix    Family = "unix"
	Windows Family = "windows"
)

// unixGOOS lists GOOS values treated as the generic Unix family.
var unixGOOS = map[string]bool{
	"linux":     true,
	"freebsd":   true,
	"openbsd":   true,
	"netbsd":    true,
	"dragonfly": true,
	"solaris":   true,
	"illumos":   true,
	"aix":       true,
}

// FamilyOf maps a GOOS value to its family.
func FamilyOf(goos string) (Family, error) {
	switch {
	case goos == "darwin":
		return MacOS, nil
	case goos == "windows":
		return Windows, nil
	case unixGOOS[goos]:
		return Unix, nil
	default:
		return "", fmt.Errorf("%s is not a supported host OS", goos)
	}
}

// IsLinux reports whether goos is Linux. The Windows build ships helper
// binaries only for Linux among the Unix family.
func IsLinux(goos string) bool {
	return goos == "linux"
}
