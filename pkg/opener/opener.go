package opener

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/browser"
)

// Opener opens the served URL in the local browser
type Opener struct {
	logger *slog.Logger
	mu     sync.Mutex
	open   func(url string) error
}

// New creates a new Opener backed by the system browser
func New(logger *slog.Logger) *Opener {
	return &Opener{
		logger: logger,
		open:   browser.OpenURL,
	}
}

// OpenURL opens a URL in the default browser
func (o *Opener) OpenURL(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.logger.Info("Opening URL", "url", url)

	if err := o.open(url); err != nil {
		o.logger.Warn("Failed to open URL", "url", url, "error", err)
		return fmt.Errorf("failed to open URL: %w", err)
	}

	return nil
}

// LocalURL returns the URL a browser on this machine uses to reach port
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d/", port)
}
