// Package branches lists local branches ordered by most recent commit.
package branches
