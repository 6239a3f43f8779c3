// Package output provides the CLI's logger and plain terminal printing helpers.
package output
