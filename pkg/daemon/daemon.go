package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/session"
)

var (
	// Sessions idle for longer than this are dropped.
	sessionIdleTimeout = 24 * time.Hour
	pruneInterval      = 10 * time.Minute
)

// Server serves calculator sessions and the theme preference over HTTP.
type Server struct {
	conf     config.Config
	hub      *events.EventHub
	sessions *session.Manager
}

func NewServer(conf config.Config) *Server {
	hub := events.NewEventHub()
	return &Server{
		conf:     conf,
		hub:      hub,
		sessions: session.NewManager(hub),
	}
}

func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logrus.StandardLogger()))
	router.GET("/config", s.getConfig)
	router.GET("/theme", s.getTheme)
	router.PUT("/theme", s.setTheme)
	router.GET("/sessions", s.listSessions)
	router.GET("/sessions/:id/display", s.getDisplay)
	router.GET("/sessions/:id/state", s.getState)
	router.POST("/sessions/:id/actions", s.pressActions)
	router.DELETE("/sessions/:id", s.deleteSession)
	router.GET("/events", s.streamEvents)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.Open(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	s := NewServer(conf)

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: s.Routes(),
	}

	// A stale socket from a previous run would make Listen fail.
	if _, err := os.Stat(unixSocketPath); err == nil {
		logrus.Warnf("removing stale socket %s", unixSocketPath)
		if err := os.Remove(unixSocketPath); err != nil {
			logrus.Fatal(err)
		}
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	go s.pruneLoop(ctx)

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)
	stop()

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	if closer, ok := conf.(interface{ Close() error }); ok {
		logrus.Info("closing preference store")
		if err := closer.Close(); err != nil {
			logrus.Errorf("failed to close preference store: %v", err)
		}
	}

	logrus.Info("exiting")
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(sessionIdleTimeout); n > 0 {
				logrus.Infof("dropped %d idle sessions", n)
			}
		}
	}
}
