// Package cli constructs the ghg command-line interface, wiring the Cobra
// command hierarchy, configuration loader, shared shell executor, and
// structured logging primitives.
package cli
