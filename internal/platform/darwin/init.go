//go:build darwin && cgo

package darwin

import "github.com/mj1618/menulister/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Accessibility: NewAccessibility(),
		}, nil
	}
}
