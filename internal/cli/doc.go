// Package cli defines the Cobra command tree for the nativecapsule CLI. The
// root command builds native artifacts; subcommands cover inspection,
// environment checks, configuration and version output. Commands delegate
// to internal packages and only handle flag parsing, output formatting and
// exit status.
package cli
