package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iqbalri06/bot-jadwal/config"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taskbot",
	Short: "WhatsApp task tracker for a class or team",
	Long: `taskbot answers WhatsApp messages from registered members.

Members list their tasks and mark them done; admins create, edit and delete
tasks with photos; the superadmin manages accounts.

Run without arguments to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "taskbot.yaml", "Config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	resetCmd.Flags().StringVar(&resetKeep, "keep", "", "Superadmin phone to keep (default: configured superadmin)")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm deleting every task and user")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerSuperAdminCmd)
	rootCmd.AddCommand(cleanupUsersCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openGateway opens the configured database. The caller closes the
// returned connection.
func openGateway() (*db.Gateway, *gorm.DB, error) {
	conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, nil, err
	}
	return db.NewGateway(conn, logger), conn, nil
}
