// Package utils provides the shared configuration and logging plumbing the
// command layer builds on.
package utils
