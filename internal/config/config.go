// file: internal/config/config.go
// version: 1.3.0
// guid: 4d5e6f7a-8b9c-0d1e-2f3a-4b5c6d7e8f9a

package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	ListenAddr       string
	DataDir          string
	DatabasePath     string
	StoragePath      string
	SearchIndexPath  string
	OpenLibraryURL   string
	EnableEnrichment bool
	WatchDir         string
	WatchDebounceSec int
	UploadRatePerMin int
	MaxUploadSizeMB  int
	// AdminPassword is a bcrypt hash; a non-empty value enables basic
	// auth on mutating endpoints.
	AdminPassword string
	LogLevel      string
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("data_dir", "./data")
	viper.SetDefault("openlibrary_url", "https://openlibrary.org")
	viper.SetDefault("enable_enrichment", true)
	viper.SetDefault("watch_debounce_seconds", 5)
	viper.SetDefault("upload_rate_per_minute", 30)
	viper.SetDefault("max_upload_size_mb", 100)
	viper.SetDefault("log_level", "info")

	AppConfig = Config{
		ListenAddr:       viper.GetString("listen_addr"),
		DataDir:          viper.GetString("data_dir"),
		DatabasePath:     viper.GetString("database_path"),
		StoragePath:      viper.GetString("storage_path"),
		SearchIndexPath:  viper.GetString("search_index_path"),
		OpenLibraryURL:   viper.GetString("openlibrary_url"),
		EnableEnrichment: viper.GetBool("enable_enrichment"),
		WatchDir:         viper.GetString("watch_dir"),
		WatchDebounceSec: viper.GetInt("watch_debounce_seconds"),
		UploadRatePerMin: viper.GetInt("upload_rate_per_minute"),
		MaxUploadSizeMB:  viper.GetInt("max_upload_size_mb"),
		AdminPassword:    viper.GetString("admin_password"),
		LogLevel:         viper.GetString("log_level"),
	}

	// Derive the on-disk layout from data_dir when unset.
	if AppConfig.DatabasePath == "" {
		AppConfig.DatabasePath = filepath.Join(AppConfig.DataDir, "ebook-library.db")
	}
	if AppConfig.StoragePath == "" {
		AppConfig.StoragePath = filepath.Join(AppConfig.DataDir, "storage")
	}
	if AppConfig.SearchIndexPath == "" {
		AppConfig.SearchIndexPath = filepath.Join(AppConfig.DataDir, "index.bleve")
	}
}
