package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/FrothyRythm/project010/pkg/config"
	"github.com/FrothyRythm/project010/pkg/opener"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Message is the body served on GET /
const Message = "Testing Jenkins Pipeline with Node.js App"

const shutdownTimeout = 5 * time.Second

type urlOpener interface {
	OpenURL(url string) error
}

// Server answers GET / with Message on a single TCP listener
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	router   *mux.Router
	http     *http.Server
	listener net.Listener
	ready    chan struct{}
	opener   urlOpener
	id       string
}

// New creates a server for cfg. Nothing is bound until Listen.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	r := mux.NewRouter()
	s := &Server{
		config: cfg,
		logger: logger,
		router: r,
		ready:  make(chan struct{}),
		opener: opener.New(logger),
		id:     uuid.New().String(),
	}

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet, http.MethodHead)

	s.http = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Ready is closed once the listener is bound
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound port, or the configured one before Listen
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Port
}

// Listen binds the TCP listener. Any failure is returned as *BindError.
func (s *Server) Listen() error {
	if s.listener != nil {
		return fmt.Errorf("server already listening on %s", s.listener.Addr())
	}

	addr := s.config.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}
	s.listener = listener
	close(s.ready)

	s.logger.Info("Server is running on port "+strconv.Itoa(s.Port()),
		"address", listener.Addr().String(),
		"instance", s.id,
	)
	return nil
}

// Serve handles connections on the bound listener until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(s.listener)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		s.logger.Debug("Context cancelled")
	}

	return s.shutdown()
}

// Run binds, performs the startup side effects and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	if s.config.PIDFile != "" {
		if err := s.writePIDFile(); err != nil {
			_ = s.listener.Close()
			return err
		}
		defer s.removePIDFile()
	}

	if s.config.Systemd {
		s.notifySystemd("READY=1")
		s.notifySystemd("STATUS=Serving on port " + strconv.Itoa(s.Port()))
		defer s.notifySystemd("STOPPING=1")
	}

	if s.config.OpenBrowser {
		go func() {
			_ = s.opener.OpenURL(opener.LocalURL(s.Port()))
		}()
	}

	return s.Serve(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, Message); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}

// shutdown drains in-flight requests
func (s *Server) shutdown() error {
	s.logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down cleanly", "error", err)
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
