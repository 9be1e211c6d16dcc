//go:build darwin

// Package darwin provides macOS platform support using the Accessibility
// API. All functionality requires CGo.
// When CGo is disabled, the package compiles as a no-op stub and no
// provider is registered.
package darwin
