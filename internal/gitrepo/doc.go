// Package gitrepo wraps the git command-line tool with the branch-level
// operations needed to prune local branches whose upstream is gone.
//
// RepositoryManager answers repository queries (work tree detection, HEAD
// state, branch enumeration, ancestry) and performs safe and forced branch
// deletion. Mutating and ancestry operations report a tagged OperationResult
// so callers branch on meaning rather than raw exit codes.
package gitrepo
