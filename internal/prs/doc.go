// Package prs drives pull request workflows through the GitHub CLI: labeling
// for merge, listing with check status, and opening a pull request for the
// current branch.
package prs
