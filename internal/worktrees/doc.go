// Package worktrees manages sibling git worktrees named after the repository,
// creating them next to the main working copy and cleaning them up together
// with their branches.
package worktrees
