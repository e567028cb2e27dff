// Package gitrepo answers questions about the state of a Git working copy by
// shelling out through execshell: current branch, dirtiness, recent commits,
// remote naming, and worktree topology.
package gitrepo
