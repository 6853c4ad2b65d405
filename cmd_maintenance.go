package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/media"
)

var (
	resetKeep string
	resetYes  bool
)

var registerSuperAdminCmd = &cobra.Command{
	Use:   "register-superadmin [phone]",
	Short: "Promote or create the superadmin account",
	Long: `Makes sure the given phone number (or the configured superadmin.phone)
belongs to a superadmin. An existing account is promoted and its number
normalized; otherwise a new superadmin is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phone := cfg.SuperAdmin.Phone
		if len(args) == 1 {
			phone = args[0]
		}
		gw, conn, err := openGateway()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		u, err := gw.EnsureSuperAdmin(cmd.Context(), phone, cfg.SuperAdmin.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Superadmin: %s (%s)\n", u.Name, u.PhoneNumber)
		return nil
	},
}

var cleanupUsersCmd = &cobra.Command{
	Use:   "cleanup-users",
	Short: "Normalize phone numbers and merge duplicate accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, conn, err := openGateway()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		report, err := gw.CleanupDuplicateUsers(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scanned:    %d\n", report.Scanned)
		fmt.Fprintf(out, "Normalized: %d\n", report.Normalized)
		fmt.Fprintf(out, "Merged:     %d\n", report.Merged)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Delete every task and every user except the superadmin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to reset without --yes")
		}
		keep := resetKeep
		if keep == "" {
			keep = cfg.SuperAdmin.Phone
		}

		gw, conn, err := openGateway()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		report, err := gw.Reset(cmd.Context(), keep, cfg.SuperAdmin.Name)
		if err != nil {
			return err
		}

		files := &media.Store{Dir: cfg.Media.Dir}
		if err := files.RemoveAll(report.PhotoPaths); err != nil {
			logger.Warn("failed to remove some photos", zap.Error(err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Deleted %d tasks, %d users and %d photos\n", report.Tasks, report.Users, len(report.PhotoPaths))
		if report.Kept != nil {
			fmt.Fprintf(out, "Kept superadmin %s (%s)\n", report.Kept.Name, report.Kept.PhoneNumber)
		}
		return nil
	},
}
