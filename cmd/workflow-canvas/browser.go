package main

import (
	"os/exec"
	"runtime"

	"github.com/ritzau/workflow-canvas/pkg/logging"
)

func openBrowser(url string) {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
