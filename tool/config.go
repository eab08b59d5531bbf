package tool

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/qrshare-go/types"
)

var ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Alias:              "qrshare",
		Version:            "1.0",
		Port:               8090,
		Protocol:           "http",
		OutputDir:          "received",
		MaxFileSizeBytes:   10 << 30, // 10 GiB
		MaxRangeSpecs:      5,
		TimeoutSeconds:     600,
		RateLimitWindowSec: 60,
	}
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, create with default values.
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	if cfg.MaxRangeSpecs <= 0 {
		cfg.MaxRangeSpecs = 5
	}
	if cfg.RateLimitWindowSec <= 0 {
		cfg.RateLimitWindowSec = 60
	}

	return cfg, nil
}

// SaveConfig persists the current config, used after TLS certificate
// generation so the certificate survives restarts.
func SaveConfig(cfg types.AppConfig) error {
	return writeConfig(ConfigPath, cfg)
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MergeFlags applies CLI flag overrides onto the loaded config.
func MergeFlags(cfg *types.AppConfig, flags types.Config) {
	if flags.UseAlias != "" {
		cfg.Alias = flags.UseAlias
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseHttps {
		cfg.Protocol = "https"
	}
	if flags.UseOutputDir != "" {
		cfg.OutputDir = flags.UseOutputDir
	}
	if flags.UseURLPrefix != "" {
		cfg.URLPrefix = flags.UseURLPrefix
	}
	if flags.UseAllowIps != "" {
		cfg.AllowIps = splitCSV(flags.UseAllowIps)
	}
	if flags.UseRateLimit > 0 {
		cfg.RateLimit = flags.UseRateLimit
	}
	switch {
	case flags.UseTimeout > 0:
		cfg.TimeoutSeconds = flags.UseTimeout
	case flags.UseTimeout < 0:
		cfg.TimeoutSeconds = 0 // disabled
	}
	if len(flags.SharePaths) > 0 {
		cfg.SharePaths = flags.SharePaths
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
