package tool

import (
	"flag"

	"github.com/moyoez/qrshare-go/types"
)

// SetFlags parses CLI flags and returns the override config.
// Positional arguments are treated as share paths.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseOutputDir, "useOutputDir", "", "override upload output directory")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override listen port")
	flag.BoolVar(&cfg.UseHttps, "useHttps", false, "serve over HTTPS with a self-signed certificate")
	flag.StringVar(&cfg.UseURLPrefix, "useURLPrefix", "", "override URL path prefix (e.g. /share)")
	flag.StringVar(&cfg.UseAlias, "useAlias", "", "specify alias for the server")
	flag.StringVar(&cfg.UseAllowIps, "useAllowIps", "", "comma-separated IP allow-list (exact, CIDR or wildcard)")
	flag.IntVar(&cfg.UseRateLimit, "useRateLimit", 0, "max requests per client per window (0 keeps config value)")
	flag.IntVar(&cfg.UseTimeout, "useTimeout", 0, "server shutdown timeout in seconds (-1 disables)")
	flag.BoolVar(&cfg.SkipQRTerminal, "skipQRTerminal", false, "do not print the access QR code to the terminal")
	flag.Parse()
	cfg.SharePaths = flag.Args()
	return cfg
}
