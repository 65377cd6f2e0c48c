package slidepdf

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser downloads a compatible Chromium binary if one is not
// already cached and returns the path to the executable. The binary is
// stored in ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser (Windows).
// A Chrome already installed on the system is preferred.
func resolveBrowser() (string, error) {
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("slidepdf: downloading browser: %w", err)
	}
	return path, nil
}
