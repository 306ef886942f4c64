// file: internal/config/persistence.go
// version: 1.1.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath returns the path to the YAML config file inside the
// data directory.
func ConfigFilePath() string {
	if AppConfig.DataDir == "" {
		return ""
	}
	return filepath.Join(AppConfig.DataDir, "config.yaml")
}

// LoadConfigFromFile loads settings from the YAML config file as a
// fallback. File values only fill in gaps left by flags and environment.
func LoadConfigFromFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig map[string]any
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		log.Printf("Warning: Failed to parse config file %s: %v", path, err)
		return nil
	}

	applied := 0

	stringFallbacks := map[string]*string{
		"openlibrary_url": &AppConfig.OpenLibraryURL,
		"watch_dir":       &AppConfig.WatchDir,
		"admin_password":  &AppConfig.AdminPassword,
		"log_level":       &AppConfig.LogLevel,
	}
	for key, ptr := range stringFallbacks {
		if *ptr == "" {
			if val, ok := fileConfig[key].(string); ok && val != "" {
				*ptr = val
				applied++
				log.Printf("[INFO] Loaded %s from config file", key)
			}
		}
	}

	if applied > 0 {
		log.Printf("Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// SaveConfigToFile writes the current settings to the YAML config file.
func SaveConfigToFile() error {
	path := ConfigFilePath()
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	fileConfig := map[string]any{
		"listen_addr":            AppConfig.ListenAddr,
		"data_dir":               AppConfig.DataDir,
		"database_path":          AppConfig.DatabasePath,
		"storage_path":           AppConfig.StoragePath,
		"search_index_path":      AppConfig.SearchIndexPath,
		"openlibrary_url":        AppConfig.OpenLibraryURL,
		"enable_enrichment":      AppConfig.EnableEnrichment,
		"watch_dir":              AppConfig.WatchDir,
		"watch_debounce_seconds": AppConfig.WatchDebounceSec,
		"upload_rate_per_minute": AppConfig.UploadRatePerMin,
		"max_upload_size_mb":     AppConfig.MaxUploadSizeMB,
		"admin_password":         AppConfig.AdminPassword,
		"log_level":              AppConfig.LogLevel,
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
