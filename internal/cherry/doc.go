// Package cherry replays recent commits onto a fresh branch cut from the base
// branch and opens a pull request for them, returning to the original branch
// afterwards.
package cherry
