// Package tui renders CLI output.
package tui
