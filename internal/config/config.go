package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

// cloudContainerID identifies the cloud-synced container whose Documents
// directory holds the spark files when it is present on this machine.
const cloudContainerID = "iCloud~de~plontsch~journey~shared"

type Config struct {
	Sparks  SparksConfig  `yaml:"sparks,omitempty"`
	Logging LoggingConfig `yaml:"logging"`

	// SettingsPath overrides the location of the settings database.
	SettingsPath string `yaml:"settings_path,omitempty"`
}

// SparksConfig configures spark file discovery.
type SparksConfig struct {
	// Dir is the watched root. Empty means auto-detect: the cloud
	// container's Documents directory if provisioned, else ~/Sparks.
	Dir string `yaml:"dir,omitempty"`

	// Extensions lists file extensions treated as sparks.
	Extensions []string `yaml:"extensions,omitempty"`

	// DebounceMillis is how long to wait for more file changes before
	// rebuilding the record list.
	DebounceMillis int `yaml:"debounce_millis,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Sparks: SparksConfig{
			Extensions:     []string{".md", ".txt"},
			DebounceMillis: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ResolveSparksDir returns the watched root, auto-detecting the cloud
// container when no explicit directory is configured. The returned path
// may not exist; callers treat that as an empty record set.
func (c *Config) ResolveSparksDir() string {
	if c.Sparks.Dir != "" {
		return c.Sparks.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "Sparks"
	}
	cloud := filepath.Join(home, "Library", "Mobile Documents", cloudContainerID, "Documents")
	if info, err := os.Stat(cloud); err == nil && info.IsDir() {
		return cloud
	}
	return filepath.Join(home, "Sparks")
}

// ResolveSettingsPath returns the settings database location.
func (c *Config) ResolveSettingsPath() string {
	if c.SettingsPath != "" {
		return c.SettingsPath
	}
	return filepath.Join(ConfigDir(), "settings.db")
}

func ConfigDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".motion")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".motion.yaml")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
