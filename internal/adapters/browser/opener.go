package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener hands links to the system browser. Start, not Run: the user's
// navigation must never wait on anything, least of all us.
type Opener struct{}

func New() Opener {
	return Opener{}
}

func (Opener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}
