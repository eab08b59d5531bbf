package api

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrshare-go/api/controllers"
	"github.com/moyoez/qrshare-go/api/eventhub"
	"github.com/moyoez/qrshare-go/api/middlewares"
	"github.com/moyoez/qrshare-go/guard"
	"github.com/moyoez/qrshare-go/share"
	"github.com/moyoez/qrshare-go/tool"
	"github.com/moyoez/qrshare-go/transfer"
	"github.com/moyoez/qrshare-go/types"
)

// Server is the single-process HTTP server tying the catalog, the access
// guard and the transfer handlers together. All mutable shared state
// (rate-limit map, pending artifacts, counters) hangs off this struct so
// tests can build isolated instances.
type Server struct {
	cfg       *types.AppConfig
	catalog   *share.Catalog
	guard     *guard.Guard
	monitor   *transfer.Monitor
	hub       *eventhub.Hub
	pending   *share.PendingArtifacts
	accessURL string

	engine    *gin.Engine
	server    *http.Server
	mu        sync.RWMutex
	stopOnce  sync.Once
	stopped   chan struct{}
	sweepStop chan struct{}
}

// NewServer wires a server instance from the loaded config and the
// already-built catalog. accessURL is the externally reachable URL shown
// in QR codes.
func NewServer(cfg *types.AppConfig, catalog *share.Catalog, accessURL string) *Server {
	return &Server{
		cfg:       cfg,
		catalog:   catalog,
		guard:     guard.New(cfg),
		monitor:   transfer.NewMonitor(),
		hub:       eventhub.New(),
		pending:   share.NewPendingArtifacts(),
		accessURL: accessURL,
		stopped:   make(chan struct{}),
		sweepStop: make(chan struct{}),
	}
}

// Monitor exposes the transfer counters, mainly for tests.
func (s *Server) Monitor() *transfer.Monitor {
	return s.monitor
}

// Done is closed once the server has fully shut down.
func (s *Server) Done() <-chan struct{} {
	return s.stopped
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	// CORS first: OPTIONS preflights must short-circuit before the guard.
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(middlewares.AccessGuard(s.guard))

	prefix := "/" + strings.Trim(s.cfg.URLPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	root := engine.Group(prefix)
	{
		filesCtrl := controllers.NewFilesController(s.catalog, s.monitor, s.hub, s.cfg)
		uploadCtrl := controllers.NewUploadController(s.cfg.OutputDir, s.monitor, s.hub, s.cfg)
		archiveCtrl := controllers.NewArchiveController(s.catalog, s.pending, s.monitor, s.hub)

		root.GET("/", controllers.HandleIndex)
		root.GET("/files", filesCtrl.HandleList)
		root.GET("/files/:filename", filesCtrl.HandleDownload)
		root.GET("/download-all", archiveCtrl.HandleDownloadAll)
		root.POST("/upload", uploadCtrl.HandleUpload)
		root.POST("/stop", controllers.HandleStop(s.hub, s.Stop))
		root.GET("/qrcode", controllers.GenerateQRCode(s.accessURL))
		root.GET("/info", controllers.HandleInfo(s.cfg, s.catalog, s.monitor))
		root.GET("/events", eventhub.HandleEventsWS(s.hub))
	}

	return engine
}

// Start builds the routes, starts the rate-limit sweeper and serves until
// Stop is called. Blocks like http.Server.ListenAndServe.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: engine,
	}
	s.mu.Unlock()

	if rl := s.guard.Limiter(); rl != nil {
		rl.StartSweeper(guard.DefaultCleanupInterval, s.sweepStop)
	}

	tool.DefaultLogger.Infof("Starting server on %s://0.0.0.0:%d", s.cfg.Protocol, s.cfg.Port)

	var err error
	if s.cfg.Protocol == "https" {
		err = s.startTLS()
	} else {
		err = s.server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		<-s.stopped
		return nil
	}
	return err
}

func (s *Server) startTLS() error {
	certBytes, keyBytes, err := tool.GetOrCreateTLSCertFromConfig(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to get TLS certificate: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certBytes,
	})
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: keyBytes,
	})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %v", err)
	}

	s.mu.Lock()
	s.server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
	}
	s.mu.Unlock()

	if err := tool.SaveConfig(*s.cfg); err != nil {
		tool.DefaultLogger.Warnf("Failed to persist TLS certificate to config: %v", err)
	}

	tool.DefaultLogger.Infof("TLS certificate configured for HTTPS")
	return s.server.ListenAndServeTLS("", "")
}

// Stop gracefully shuts the server down: in-flight responses get a short
// grace period, pending zip artifacts are removed, the sweeper stops.
// Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		tool.DefaultLogger.Infof("Shutting down server")
		close(s.sweepStop)

		s.mu.RLock()
		srv := s.server
		s.mu.RUnlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				tool.DefaultLogger.Warnf("Forced shutdown: %v", err)
			}
		}

		s.pending.CleanupAll()
		close(s.stopped)
	})
}
