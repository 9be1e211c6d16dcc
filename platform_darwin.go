//go:build darwin

package main

// Registers the macOS provider with internal/platform.
import _ "github.com/mj1618/menulister/internal/platform/darwin"
