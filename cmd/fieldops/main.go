// Command fieldops is a terminal client for field employees: it signs
// in against the company backend, shows the assignment calendar, tails
// the live notification stream, and manages the user profile. A local
// SQLite cache keeps the calendar and profile readable offline.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/cache"
	"github.com/fieldops/fieldops/internal/config"
	"github.com/fieldops/fieldops/internal/credential"
	"github.com/fieldops/fieldops/internal/locale"
	"github.com/fieldops/fieldops/internal/token"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	tokens *token.Store
	client *api.Client
	store  *cache.Store
	msgs   *locale.Locale
)

var rootCmd = &cobra.Command{
	Use:           "fieldops",
	Short:         "Field employee terminal client",
	Long:          `Terminal client for field employees: calendar, live notifications, and profile against the company backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultConfigPath()
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if cfg.API.BaseURL == "" {
			return fmt.Errorf("no backend configured: set api.base_url in %s or FIELDOPS_BASE_URL", path)
		}

		ring, err := credential.Open()
		if err != nil {
			return err
		}
		tokens = token.New(ring)
		client = api.New(cfg.API, tokens)
		msgs = locale.Get(cfg.Locale)

		store, err = cache.Open(cfg.CachePath)
		if err != nil {
			return err
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/fieldops/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
