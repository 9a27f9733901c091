package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents shopctl operator preferences stored in
// ~/.vendor-pricing-engine/config.json. This file stores ONLY preferences,
// never the control-plane API key.
type UserConfig struct {
	// DefaultPlayerID is used by shopctl subcommands when --player-id is
	// omitted (e.g. repeated manual buy/sell testing against one account).
	DefaultPlayerID string `json:"default_player_id,omitempty"`

	// DefaultServerAddr overrides the control-plane address shopctl talks
	// to, so an operator pointed at a staging engine doesn't have to pass
	// --server on every invocation.
	DefaultServerAddr string `json:"default_server_addr,omitempty"`
}

// UserConfigHandler manages loading and saving shopctl's user configuration.
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a new user config handler.
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".vendor-pricing-engine")
	configPath := filepath.Join(configDir, "config.json")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{configPath: configPath}, nil
}

// Load reads the user config from disk.
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &cfg, nil
}

// Save writes the user config to disk.
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultPlayer sets the default player ID.
func (h *UserConfigHandler) SetDefaultPlayer(playerID string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}

	cfg.DefaultPlayerID = playerID
	return h.Save(cfg)
}

// SetDefaultServerAddr sets the default control-plane address.
func (h *UserConfigHandler) SetDefaultServerAddr(addr string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}

	cfg.DefaultServerAddr = addr
	return h.Save(cfg)
}

// GetConfigPath returns the path to the user config file.
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
