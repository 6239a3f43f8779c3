// Package wrapper drives the external tool that wraps an archive into a
// Windows executable. The packaging code builds a Config and hands it to a
// Tool; Launch4j is the out-of-process implementation.
package wrapper
