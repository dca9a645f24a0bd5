/*
Package config manages TOML config for textcat.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/textcat/internal/utils"
	"github.com/bastiangx/textcat/pkg/classify"
	"github.com/bastiangx/textcat/pkg/store"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Profile  ProfileConfig  `toml:"profile"`
	Classify ClassifyConfig `toml:"classify"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// ProfileConfig controls how category and query profiles are built.
type ProfileConfig struct {
	Lengths            []int  `toml:"lengths"`
	Cap                int    `toml:"cap"`
	Separator          string `toml:"separator"`
	DropSymbolUnigrams bool   `toml:"drop_symbol_unigrams"`
	Jobs               int    `toml:"jobs"`
}

// ClassifyConfig holds classifier options.
type ClassifyConfig struct {
	AmbiguityMargin float64 `toml:"ambiguity_margin"`
	CandidateRatio  float64 `toml:"candidate_ratio"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxTextBytes int `toml:"max_text_bytes"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowCandidates bool `toml:"show_candidates"`
	CandidateLimit int  `toml:"candidate_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/textcat
// 2. ~/Library/Application Support/textcat (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "textcat")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "textcat")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/textcat/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := store.DefaultOptions()
	return &Config{
		Profile: ProfileConfig{
			Lengths:   opts.Lengths,
			Cap:       opts.Cap,
			Separator: string(opts.Separator),
		},
		Classify: ClassifyConfig{
			CandidateRatio: classify.DefaultCandidateRatio,
		},
		Server: ServerConfig{
			MaxTextBytes: 1 << 20,
		},
		CLI: CliConfig{
			ShowCandidates: true,
			CandidateLimit: 5,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key of a file that failed to decode
// as a whole and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "profile"); ok {
		extractProfileConfig(section, &config.Profile)
	}
	if section, ok := utils.ExtractSection(tempConfig, "classify"); ok {
		extractClassifyConfig(section, &config.Classify)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_text_bytes"); ok {
			config.Server.MaxTextBytes = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractProfileConfig(data map[string]any, profile *ProfileConfig) {
	if val, ok := utils.ExtractIntSlice(data, "lengths"); ok {
		profile.Lengths = val
	}
	if val, ok := utils.ExtractInt64(data, "cap"); ok {
		profile.Cap = val
	}
	if val, ok := utils.ExtractString(data, "separator"); ok {
		profile.Separator = val
	}
	if val, ok := utils.ExtractBool(data, "drop_symbol_unigrams"); ok {
		profile.DropSymbolUnigrams = val
	}
	if val, ok := utils.ExtractInt64(data, "jobs"); ok {
		profile.Jobs = val
	}
}

func extractClassifyConfig(data map[string]any, c *ClassifyConfig) {
	if val, ok := utils.ExtractFloat(data, "ambiguity_margin"); ok {
		c.AmbiguityMargin = val
	}
	if val, ok := utils.ExtractFloat(data, "candidate_ratio"); ok {
		c.CandidateRatio = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_candidates"); ok {
		cli.ShowCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "candidate_limit"); ok {
		cli.CandidateLimit = val
	}
}

// StoreOptions maps the [profile] section onto store options. An empty
// separator selects the default; anything longer than one rune is an error.
func (c *Config) StoreOptions() (store.Options, error) {
	opts := store.Options{
		Lengths:            c.Profile.Lengths,
		Cap:                c.Profile.Cap,
		DropSymbolUnigrams: c.Profile.DropSymbolUnigrams,
		Jobs:               c.Profile.Jobs,
	}
	switch sep := []rune(c.Profile.Separator); len(sep) {
	case 0:
	case 1:
		opts.Separator = sep[0]
	default:
		return store.Options{}, fmt.Errorf("config: separator %q must be a single character", c.Profile.Separator)
	}
	return opts, nil
}

// ClassifyOptions maps the [classify] section onto classifier options.
func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{AmbiguityMargin: c.Classify.AmbiguityMargin}
}

// RebuildConfigFile force writes the default config to path, or to the
// default location when path is empty, and returns the path written.
func RebuildConfigFile(path string) (string, error) {
	if path == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := utils.SaveTOMLFile(DefaultConfig(), path); err != nil {
		return "", err
	}
	return utils.GetAbsolutePath(path), nil
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
