// Package diffview shows either the working tree diff or the three-dot diff
// against the base branch, streaming git output straight to the terminal.
package diffview
