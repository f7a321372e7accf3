package server

import (
	"fmt"
	"net"
	"os"
)

// notifySystemd sends a notification to systemd
func (s *Server) notifySystemd(state string) {
	socketPath := os.Getenv("NOTIFY_SOCKET")
	if socketPath == "" {
		return
	}

	conn, err := net.Dial("unixgram", socketPath)
	if err != nil {
		s.logger.Debug("Failed to connect to systemd socket", "error", err)
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(state)); err != nil {
		s.logger.Debug("Failed to notify systemd", "state", state, "error", err)
	}
}

// writePIDFile writes the current process ID to the configured file
func (s *Server) writePIDFile() error {
	pid := os.Getpid()
	if err := os.WriteFile(s.config.PIDFile, []byte(fmt.Sprintf("%d\n", pid)), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	s.logger.Debug("Wrote PID file", "path", s.config.PIDFile, "pid", pid)
	return nil
}

func (s *Server) removePIDFile() {
	if err := os.Remove(s.config.PIDFile); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to remove PID file", "error", err)
	}
}
