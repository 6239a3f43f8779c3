// Package config manages user-level settings stored at ~/.nativecapsule/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the runtime command used in shebang prefixes and the executable-wrapper
// command and timeout.
package config
