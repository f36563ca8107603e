// Package branches prunes local branches whose upstream has been removed.
//
// CommandBuilder exposes the Cobra command and resolves flags into an
// immutable Configuration. Runner walks the repositories selected by the
// configuration and hands each one to Service, which classifies candidate
// branches, asks for confirmation, and deletes them through git.
package branches
