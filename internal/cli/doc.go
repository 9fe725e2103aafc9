// Package cli hosts integration tests that exercise the pipeline wired the
// way the prepare command wires it.
package cli
