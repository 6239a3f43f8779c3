// Package platform provides host OS detection and cross-platform filesystem
// helpers for native builds: output suffix handling and owner-execute
// permission management. On Windows hosts permission changes are no-ops
// because Windows does not support Unix-style permission bits.
package platform
