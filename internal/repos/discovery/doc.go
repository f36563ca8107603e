// Package discovery locates git repositories beneath a folder in single, one-level, and recursive modes.
package discovery
