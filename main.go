package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mdp/qrterminal/v3"

	"github.com/moyoez/qrshare-go/api"
	"github.com/moyoez/qrshare-go/share"
	"github.com/moyoez/qrshare-go/tool"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.MergeFlags(&appCfg, cfg)

	// initialize logger
	tool.InitLogger()
	switch strings.ToLower(cfg.Log) {
	case "", "dev":
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	case "prod":
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	case "none":
		tool.DefaultLogger.SetLevel(log.FatalLevel)
	default:
		tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	}

	if len(appCfg.SharePaths) == 0 {
		tool.DefaultLogger.Fatalf("No share paths given: pass files or directories as arguments or set sharePaths in %s", tool.ConfigPath)
	}

	catalog, err := share.Build(appCfg.SharePaths)
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to build file catalog: %v", err)
	}
	tool.DefaultLogger.Infof("Sharing %d files from %d paths", catalog.Len(), len(appCfg.SharePaths))

	lanIP, err := tool.DetectLANAddress()
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to detect LAN address: %v", err)
	}

	accessURL := fmt.Sprintf("%s://%s:%d", appCfg.Protocol, lanIP, appCfg.Port)
	if prefix := strings.Trim(appCfg.URLPrefix, "/"); prefix != "" {
		accessURL += "/" + prefix
	}

	server := api.NewServer(&appCfg, catalog, accessURL)
	go func() {
		if err := server.Start(); err != nil {
			tool.DefaultLogger.Fatalf("Server startup failed: %v", err)
		}
	}()

	tool.DefaultLogger.Infof("Scan the QR code or open %s", accessURL)
	if !cfg.SkipQRTerminal {
		qrterminal.GenerateWithConfig(accessURL, qrterminal.Config{
			Level:     qrterminal.L,
			Writer:    os.Stdout,
			BlackChar: qrterminal.BLACK,
			WhiteChar: qrterminal.WHITE,
			QuietZone: 1,
		})
	}

	// Whole-server wall clock: after the timeout the server stops
	// unconditionally, aborting in-flight transfers. Zero disables it.
	var timeoutCh <-chan time.Time
	if appCfg.TimeoutSeconds > 0 {
		timer := time.NewTimer(time.Duration(appCfg.TimeoutSeconds) * time.Second)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-timeoutCh:
		tool.DefaultLogger.Infof("Server timeout reached after %ds", appCfg.TimeoutSeconds)
		server.Stop()
	case sig := <-sigCh:
		tool.DefaultLogger.Infof("Received signal %v", sig)
		server.Stop()
	case <-server.Done():
		// stopped via POST /stop
	}

	<-server.Done()
	tool.DefaultLogger.Infof("Bye")
}
