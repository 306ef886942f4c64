// file: cmd/version.go
// version: 1.0.0
// guid: 3e4f5a6b-7c8d-9e0f-1a2b-3c4d5e6f7a82

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated via -ldflags at release build time.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ebook-library %s (commit %s, built %s, %s)\n",
			version, commit, buildDate, runtime.Version())
	},
}
