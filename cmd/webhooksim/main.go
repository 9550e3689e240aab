// Command webhooksim drives a running tracking server the way a storefront
// would: it signs sample order webhooks and mints development tokens.
package main

import (
	"fmt"
	"os"

	"github.com/siesson1991/adtracking-saas/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	logLevel string
	log      *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "webhooksim",
		Short:        "Send signed marketplace webhooks to a tracking server",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg := logger.DefaultConfig()
			cfg.Level = opts.logLevel
			log, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			opts.log = log.Named("webhooksim")
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = logger.Sync(opts.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newSendCmd(opts), newTokenCmd(opts))
	return root
}
