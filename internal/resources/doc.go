// Package resources provides the files bundled with the tool (launch4j helper
// binaries, w32api link objects, executable headers and the GUI caplet
// classes) and extracts them into run-scoped temporary directories.
//
// The embedded bundle holds placeholders and carries a PLACEHOLDER marker at
// its root; extraction from a marked tree fails. Release builds point the
// resources.dir setting at a directory with the same layout:
//
//	bin/{linux,mac,windows}/   ld, windres (ld.exe, windres.exe on Windows)
//	w32api/                    link objects
//	head/                      consolehead.o, guihead.o, head.o
//	caplets/                   GUICapsule.class, GUIMavenCapsule.class, capsule/...
package resources
