// Package jar copies and mutates application archives. A Jar is opened from
// a source archive, accumulates changes (an executable prefix, manifest
// attribute rewrites, added classes and entries) and writes a new archive at
// its output path on Close. The source archive is never modified unless the
// output path is the source path itself.
package jar
