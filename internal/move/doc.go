// Package move relocates uncommitted changes onto a fresh branch cut from an
// updated base branch, stashing and reapplying the working tree as needed.
package move
