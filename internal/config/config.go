package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig application configuration
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Classifier ClassifierConfig `toml:"classifier"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig data directory configuration
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, text
}

// ClassifierConfig eligibility policy knobs: category keyword lists, the
// exclusion list, score weights and the status thresholds
type ClassifierConfig struct {
	// Category label -> keywords scanned in title/eligibility text
	Categories map[string][]string `toml:"categories"`
	// Explicit exclusion list; a hit with no project-type tag overlap
	// short-circuits to not_relevant
	NegativeKeywords []string `toml:"negative_keywords"`

	TagWeight      float64 `toml:"tag_weight"`      // weight of tag overlap ratio
	TurnoverWeight float64 `toml:"turnover_weight"` // weight of turnover headroom

	EligibleThreshold int `toml:"eligible_threshold"` // >= maps to eligible
	ReviewThreshold   int `toml:"review_threshold"`   // >= maps to manual_review
}

// LoadConfigInfo configuration load metadata
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20310,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Classifier: ClassifierConfig{
			Categories: map[string][]string{
				"Software":   {"software", "application development", "erp", "mobile app", "saas", "api integration"},
				"Website":    {"website", "web portal", "web application", "cms", "e-governance portal"},
				"Manpower":   {"manpower", "staffing", "outsourcing", "deployment of personnel", "data entry operator"},
				"Hardware":   {"hardware", "desktop", "laptop", "server supply", "printer", "scanner"},
				"Networking": {"networking", "lan", "wan", "wifi", "structured cabling", "firewall"},
				"Cloud":      {"cloud", "hosting", "data center", "data centre", "virtual machine"},
			},
			NegativeKeywords: []string{
				"civil construction", "road work", "building construction",
				"furniture", "horticulture", "catering services",
				"medical equipment", "security guard", "housekeeping",
				"plumbing", "earthwork",
			},
			TagWeight:         70,
			TurnoverWeight:    30,
			EligibleThreshold: 70,
			ReviewThreshold:   40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and returns load metadata
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// cannot resolve the executable dir, fall back to cwd
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// no config file, defaults apply
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// env overrides (E2E / local runs)
	if v := os.Getenv("TENDERDESK_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("TENDERDESK_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}

	return config, info, nil
}

// LoadConfig loads config.toml from the executable's directory
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig writes config.toml next to the executable
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory tree
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
