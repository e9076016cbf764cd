package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/digitalworkshop/cutlist/internal/model"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyStrategy    = "strategy"
	cfgKeyKerfWidth   = "kerf_width"
	cfgKeyEdgeTrim    = "edge_trim"
	cfgKeyWasteFactor = "waste_factor"
	cfgKeyHistoryDB   = "history_db"
	cfgKeyHistoryKeep = "history_keep"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# cutlist configuration
# Values here provide defaults; command-line flags override them.

# Optimization strategy: greedy or search
strategy: greedy

# Saw blade kerf in mm
kerf_width: 3.2

# Edge trim reserved on each stock edge in mm
edge_trim: 10.0

# Waste factor percentage for purchase estimates
waste_factor: 15.0

# Run history database (optional; defaults to ~/.cutlist/history.db)
# history_db:

# Number of runs to keep in history
history_keep: 100
`

// defaultConfigDir returns ~/.cutlist, falling back to the current
// directory when the home directory cannot be resolved.
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".cutlist")
}

// loadConfig reads config.yaml from the config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStrategy, string(model.StrategyGreedy))
	v.SetDefault(cfgKeyKerfWidth, 3.2)
	v.SetDefault(cfgKeyEdgeTrim, 10.0)
	v.SetDefault(cfgKeyWasteFactor, 15.0)
	v.SetDefault(cfgKeyHistoryKeep, 100)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// settingsFromConfig builds Settings from the loaded configuration.
func settingsFromConfig(v *viper.Viper) model.Settings {
	settings := model.DefaultSettings()
	settings.Strategy = model.Strategy(v.GetString(cfgKeyStrategy))
	settings.KerfWidth = v.GetFloat64(cfgKeyKerfWidth)
	settings.EdgeTrim = v.GetFloat64(cfgKeyEdgeTrim)
	settings.WasteFactor = v.GetFloat64(cfgKeyWasteFactor)
	return settings
}

// historyPathFromConfig resolves the run history database path.
func historyPathFromConfig(v *viper.Viper, configDir string) string {
	if path := v.GetString(cfgKeyHistoryDB); path != "" {
		return path
	}
	return filepath.Join(configDir, "history.db")
}
