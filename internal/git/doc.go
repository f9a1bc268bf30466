// Package git locates the repository a documentation snapshot is taken from.
//
// docsnap never mutates the repository. It only needs the worktree root (the
// base every descriptor and link path is resolved against) and the HEAD commit
// the snapshot corresponds to.
package git
