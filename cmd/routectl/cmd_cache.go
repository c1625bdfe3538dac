package main

import (
	"fmt"
	"log"
	"manifest-route-service/internal/adapters/cache"
	"manifest-route-service/internal/app"
	"manifest-route-service/internal/config"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manages the geocode cache",
}

var cacheInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Creates the geocode cache schema (sqlite or postgres backends)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := app.OpenSQL(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		log.Println("Initializing geocode cache schema...")
		if err := cache.InitSchema(conn); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		log.Println("Schema ready.")

		return nil
	},
}

var cacheImportCmd = &cobra.Command{
	Use:   "import <geocode_cache.json>",
	Short: "Copies a flat-file geocode cache into the configured backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, closeStore, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		log.Printf("Importing %s into %s cache...", args[0], cfg.CacheBackend)
		n, err := cache.ImportEntries(cmd.Context(), store, args[0], app.Locale().Normalize)
		if err != nil {
			return fmt.Errorf("import failed after %d entries: %w", n, err)
		}
		log.Printf("Imported %d entries.", n)

		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInitCmd, cacheImportCmd)
	rootCmd.AddCommand(cacheCmd)
}
