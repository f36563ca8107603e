// Package cli constructs the prune-gone command-line interface. It wires the
// branch pruning command as the Cobra root, adds the diagnostic logging flags,
// normalizes optional flag values, and runs the command under a context that
// is cancelled by SIGINT and SIGTERM.
package cli
