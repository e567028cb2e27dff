// Package ui renders terminal output for ghg: styled tables for branch and
// pull request listings and human-readable command lifecycle logging.
package ui
