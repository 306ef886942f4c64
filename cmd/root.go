// file: cmd/root.go
// version: 2.1.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f71

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/ebook-library/internal/config"
	"github.com/jdfalk/ebook-library/internal/database"
	"github.com/jdfalk/ebook-library/internal/ingest"
	"github.com/jdfalk/ebook-library/internal/metadata"
	"github.com/jdfalk/ebook-library/internal/reader"
	"github.com/jdfalk/ebook-library/internal/search"
	"github.com/jdfalk/ebook-library/internal/server"
	"github.com/jdfalk/ebook-library/internal/storage"
	"github.com/jdfalk/ebook-library/internal/watcher"
)

var cfgFile string
var dataDir string
var listenAddr string
var watchDir string
var openLibraryURL string
var enableEnrichment bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ebook-library",
	Short: "Manage a personal EPUB library with metadata enrichment",
	Long: `Ebook Library ingests EPUB files, extracts their embedded metadata,
enriches it from Open Library by ISBN, normalizes cover art, and serves
the catalog over a web API with full-text search and in-browser reading.`,
}

// services bundles the initialized collaborators for a command run.
type services struct {
	store  database.Store
	files  *storage.FileStore
	index  *search.Index
	reader *reader.Service
	ingest *ingest.Service
}

func (s *services) close() {
	if s.index != nil {
		s.index.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// buildServices wires the store, file layout, search index, and
// ingestion pipeline from the active configuration.
func buildServices(persistentIndex bool) (*services, error) {
	store, err := database.NewSQLiteStore(config.AppConfig.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	files, err := storage.NewFileStore(config.AppConfig.StoragePath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var index *search.Index
	if persistentIndex {
		index, err = search.Open(config.AppConfig.SearchIndexPath)
	} else {
		index, err = search.OpenInMemory()
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}

	var lookup ingest.Lookup
	if config.AppConfig.EnableEnrichment {
		lookup = metadata.NewOpenLibraryClientWithBaseURL(config.AppConfig.OpenLibraryURL)
	}

	return &services{
		store:  store,
		files:  files,
		index:  index,
		reader: reader.NewService(files),
		ingest: ingest.NewService(store, files, lookup, nil),
	}, nil
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the web server that exposes the library API, search, and reader.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(true)
		if err != nil {
			return err
		}
		defer svc.close()

		fmt.Printf("Using database: %s\n", config.AppConfig.DatabasePath)

		// Bring the index in line with the catalog before serving.
		if err := svc.index.Rebuild(svc.store, svc.reader.FullText); err != nil {
			fmt.Printf("Warning: search index rebuild failed: %v\n", err)
		}

		if config.AppConfig.WatchDir != "" {
			debounce := time.Duration(config.AppConfig.WatchDebounceSec) * time.Second
			w := watcher.New(func(path string) {
				book, err := svc.ingest.IngestFile(context.Background(), path, "watch")
				if err != nil {
					fmt.Printf("Warning: failed to ingest %s: %v\n", path, err)
					return
				}
				if err := svc.index.IndexBook(book, ""); err != nil {
					fmt.Printf("Warning: failed to index %s: %v\n", book.ID, err)
				}
				if err := os.Remove(path); err != nil {
					fmt.Printf("Warning: failed to remove %s: %v\n", path, err)
				}
			}, debounce)
			if err := w.Start(config.AppConfig.WatchDir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", config.AppConfig.WatchDir, err)
			}
			defer w.Stop()
			fmt.Printf("Watching %s for EPUB files\n", config.AppConfig.WatchDir)
		}

		srv := server.NewServer(server.Deps{
			Store:  svc.store,
			Ingest: svc.ingest,
			Files:  svc.files,
			Reader: svc.reader,
			Index:  svc.index,
		})

		cfg := server.ServerConfig{
			Addr:         config.AppConfig.ListenAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Bulk import EPUB files from a directory",
	Long:  `Walk a directory tree and ingest every EPUB file found in it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(true)
		if err != nil {
			return err
		}
		defer svc.close()

		var paths []string
		err = filepath.WalkDir(args[0], func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && watcher.IsEPUBFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", args[0], err)
		}
		if len(paths) == 0 {
			fmt.Println("No EPUB files found")
			return nil
		}

		bar := progressbar.Default(int64(len(paths)), "importing")
		imported, failed := 0, 0
		for _, path := range paths {
			book, err := svc.ingest.IngestFile(cmd.Context(), path, "import")
			if err != nil {
				failed++
				fmt.Printf("\nFailed to import %s: %v\n", path, err)
			} else {
				imported++
				if err := svc.index.IndexBook(book, ""); err != nil {
					fmt.Printf("\nWarning: failed to index %s: %v\n", book.ID, err)
				}
			}
			_ = bar.Add(1)
		}

		fmt.Printf("\nImported %d books (%d failed)\n", imported, failed)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ebook-library.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "directory for the database, storage, and search index")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", ":8080", "address for the web server to listen on")
	rootCmd.PersistentFlags().StringVar(&watchDir, "watch", "", "drop directory to watch for EPUB files")
	rootCmd.PersistentFlags().StringVar(&openLibraryURL, "openlibrary-url", "https://openlibrary.org", "Open Library API base URL")
	rootCmd.PersistentFlags().BoolVar(&enableEnrichment, "enrich", true, "enrich metadata from Open Library")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("listen_addr", rootCmd.PersistentFlags().Lookup("listen"))
	viper.BindPFlag("watch_dir", rootCmd.PersistentFlags().Lookup("watch"))
	viper.BindPFlag("openlibrary_url", rootCmd.PersistentFlags().Lookup("openlibrary-url"))
	viper.BindPFlag("enable_enrichment", rootCmd.PersistentFlags().Lookup("enrich"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)

	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ebook-library")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()

	// File-persisted settings fill any remaining gaps.
	if err := config.LoadConfigFromFile(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	if err := os.MkdirAll(config.AppConfig.DataDir, 0755); err != nil {
		fmt.Printf("Error creating data directory: %v\n", err)
	}
}
