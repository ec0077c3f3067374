package main

import (
	"fmt"
	"os"

	"github.com/fjod/go_cart/cart-widget/internal/config"
	"github.com/fjod/go_cart/cart-widget/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "widget",
	Short: "Shopping-cart widget: product cards and a persisted cart",
	Long: `widget serves a product catalog with a cart kept in durable key-value
storage under a single key. Configuration comes from the environment
(HTTP_PORT, CATALOG_SOURCE, STORAGE_BACKEND, CART_KEY, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log, err = logger.New(logger.Options{Service: "cart-widget", Env: cfg.AppEnv, Level: cfg.LogLevel})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, cartCmd)
	cartCmd.AddCommand(cartShowCmd, cartResetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
