package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Alias              string   `yaml:"alias"`
	Version            string   `yaml:"version"`
	Port               int      `yaml:"port"`
	Protocol           string   `yaml:"protocol"`
	URLPrefix          string   `yaml:"urlPrefix,omitempty"`
	SharePaths         []string `yaml:"sharePaths"`
	OutputDir          string   `yaml:"outputDir"`
	AllowIps           []string `yaml:"allowIps,omitempty"`
	RateLimit          int      `yaml:"rateLimit,omitempty"`
	RateLimitWindowSec int      `yaml:"rateLimitWindowSeconds,omitempty"`
	GlobalRPS          float64  `yaml:"globalRPS,omitempty"`
	AllowedTypes       []string `yaml:"allowedTypes,omitempty"`
	MaxFileSizeBytes   int64    `yaml:"maxFileSizeBytes"`
	MaxRangeSpecs      int      `yaml:"maxRangeSpecs"`
	TimeoutSeconds     int      `yaml:"timeoutSeconds"`
	CertPEM            string   `yaml:"certPEM,omitempty"`
	KeyPEM             string   `yaml:"keyPEM,omitempty"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UseOutputDir   string
	UsePort        int
	UseHttps       bool
	UseURLPrefix   string
	UseAlias       string
	UseAllowIps    string // comma-separated
	UseRateLimit   int
	UseTimeout     int // seconds; 0 keeps config value, -1 disables
	SkipQRTerminal bool
	SharePaths     []string // positional arguments
}
