// Package gitignore keeps encrypted artifacts out of version control.
//
// After a successful encrypt batch, the engine calls EnsureRule once on
// the target directory. When that directory is a git repository root, the
// package creates or appends to its .gitignore so that *.gpg files are
// never committed. Non-repositories are left untouched.
package gitignore
