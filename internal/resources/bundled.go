package resources

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed bundled
var bundled embed.FS

// Bundled returns the embedded resource tree.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source returns the resource tree rooted at dir, or the embedded tree when
// dir is empty.
func Source(dir string) fs.FS {
	if dir == "" {
		return Bundled()
	}
	return os.DirFS(dir)
}
