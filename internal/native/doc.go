// Package native builds platform artifacts from a capsule archive.
//
// A Packager resolves the requested platforms, then builds them one after
// another:
//
//   - unix: the archive itself, prefixed with a shell header and marked
//     executable.
//   - macos: an .app bundle holding Info.plist, the optional icon, and the
//     prefixed archive under Contents/MacOS.
//   - windows: an .exe produced by the external wrapper tool from bundled
//     launch4j resources.
//
// Temporary files created during a run are recorded in a tempreg.Registry
// that is drained when the run ends, whether or not every platform built.
package native
