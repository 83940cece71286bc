package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viralforge/rental-service/internal/app/bootstrap"
)

var errUnhealthy = errors.New("residency audit found violations")

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "rentalctl",
		Short:         "Administration tool for the rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/default.yaml", "path to the service config file")

	root.AddCommand(migrateCmd(&configPath), auditCmd(&configPath))
	return root
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply relational migrations and ensure document indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := bootstrap.Migrate(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.StorageDriver)
			return nil
		},
	}
}

func auditCmd(configPath *string) *cobra.Command {
	audit := &cobra.Command{
		Use:   "audit",
		Short: "Consistency checks over stored data",
	}
	audit.AddCommand(&cobra.Command{
		Use:   "residency",
		Short: "Report renters seated in more than one house and booked flags that disagree with the tenant record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := bootstrap.NewLogger(cfg.ServiceID, cmd.ErrOrStderr())
			stores, err := bootstrap.OpenStores(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer stores.Close(cmd.Context())

			service, err := bootstrap.NewService(cfg, stores, logger, nil)
			if err != nil {
				return err
			}
			report, err := service.AuditResidency(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Healthy() {
				return errUnhealthy
			}
			return nil
		},
	})
	return audit
}
