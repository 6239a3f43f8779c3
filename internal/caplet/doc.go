// Package caplet models the capsule extension chain stored in the Caplets
// manifest attribute and rewrites it for GUI builds.
//
// Caplets are identified by name and carry capability tags assigned by a
// Registry. The GUI rewrite swaps every dependency-manager caplet for the
// GUI-aware dependency manager, so the plain and GUI variants never appear
// together in one chain.
package caplet
