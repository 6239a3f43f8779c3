// Package manifest reads and writes JAR manifests (META-INF/MANIFEST.MF) and
// exposes the capsule attributes that drive native builds: application name,
// version, icon, GUI mode, runtime version bounds, Windows metadata, requested
// platforms and the caplet chain. Attributes are validated against an
// embedded JSON schema before a build starts.
package manifest
