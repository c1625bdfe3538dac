// Command routectl plans delivery routes from manifest files and manages the
// geocode cache from the command line.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "plan delivery routes from manifests",
	Long: `
routectl extracts delivery addresses from a manifest (PDF, spreadsheet or
plain text), geocodes them through a persistent cache, and orders them into
a route with road distances and durations.

Configuration is read from the environment and an optional .env file.
`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
