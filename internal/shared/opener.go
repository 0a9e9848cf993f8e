package shared

import (
	"fmt"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenerCommand returns the platform command and arguments that open target with its default application.
//
// Supports macOS, Linux, and Windows platforms.
func OpenerCommand(target string) (string, []string, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return "open", []string{target}, nil
	case "linux":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}
