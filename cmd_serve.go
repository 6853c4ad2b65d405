package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/iqbalri06/bot-jadwal/admin"
	"github.com/iqbalri06/bot-jadwal/bot"
	"github.com/iqbalri06/bot-jadwal/config"
	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/media"
	"github.com/iqbalri06/bot-jadwal/whatsapp"
)

const drainTimeout = 45 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to WhatsApp and answer messages",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, conn, err := openGateway()
	if err != nil {
		return err
	}
	defer db.Close(conn)

	if _, err := gw.EnsureSuperAdmin(ctx, cfg.SuperAdmin.Phone, cfg.SuperAdmin.Name); err != nil {
		return fmt.Errorf("bootstrap superadmin: %w", err)
	}

	files, err := media.NewStore(cfg.Media.Dir)
	if err != nil {
		return err
	}

	wa, err := whatsapp.New(ctx, whatsapp.Options{
		SessionDSN: cfg.WhatsApp.SessionDSN,
		LogLevel:   cfg.WhatsApp.LogLevel,
	}, gw, logger.Named("whatsapp"))
	if err != nil {
		return err
	}

	b := bot.New(gw, conversationStore(cfg, conn), wa, files, logger.Named("bot"), bot.Options{
		DownloadTimeout: cfg.GetDownloadTimeout(),
		MaxImageBytes:   cfg.Media.MaxImageBytes,
	})
	wa.SetDispatcher(b)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Queued messages finish after the signal, so their context outlives gctx.
		if err := wa.Start(context.WithoutCancel(gctx)); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})
	if cfg.Admin.Listen != "" {
		srv := admin.New(wa, gw, logger.Named("admin"))
		g.Go(func() error {
			return srv.Run(gctx, cfg.Admin.Listen)
		})
	}

	logger.Info("taskbot running", zap.String("admin", cfg.Admin.Listen))
	runErr := g.Wait()

	logger.Info("shutting down")
	b.Close()
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := b.Wait(drainCtx); err != nil {
		logger.Warn("pending messages not drained", zap.Error(err))
	}
	if err := wa.Stop(); err != nil {
		logger.Warn("failed to close session store", zap.Error(err))
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func conversationStore(cfg *config.Config, conn *gorm.DB) conversation.Store {
	if cfg.Conversation.Store == config.StoreDatabase {
		return db.NewConversationStore(conn, logger.Named("conversation"))
	}
	return conversation.NewMemoryStore()
}
