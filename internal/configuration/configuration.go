package configuration

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/duskren/convo/internal/file"
)

var defaultConfig = Config{
	StoragePath: "~/.convo/convo.db",

	Reply: &ReplyConfig{
		Backend:        "stub",
		Model:          "gpt-4o-mini",
		APIKey:         "API_KEY",
		APIHost:        "https://api.openai.com/v1",
		RequestTimeout: 60,
	},
}

// Config holds configuration for the convo tool.
type Config struct {
	// The file backing the conversation store.
	StoragePath string `json:"storage_path"`

	Reply *ReplyConfig `json:"reply"`
}

// ReplyConfig holds configuration for the reply backend.
type ReplyConfig struct {
	// One of "openai" or "stub".
	Backend string `json:"backend"`
	// The model used to generate replies.
	Model string `json:"model"`
	// Credentials for the openai backend.
	APIKey  string `json:"api_key"`
	APIHost string `json:"api_host"`
	// Timeout for a single reply request, in seconds.
	RequestTimeout int `json:"request_timeout"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if config.Reply == nil {
		config.Reply = defaultConfig.Reply
	}

	expandedStoragePath, err := file.ExpandPath(config.StoragePath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding storage path")
	}
	config.StoragePath = expandedStoragePath
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	if err := file.EnsureParentDirectory(path); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
