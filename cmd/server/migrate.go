package main

import (
	"github.com/Yasserbhb/BeeGuardAI/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := store.Open(cmd.Context(), c.GetDBPath())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Str("db", c.GetDBPath()).Msg("database is up to date")
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := store.Open(cmd.Context(), c.GetDBPath())
			if err != nil {
				return err
			}
			defer db.Close()

			return store.MigrationStatus(cmd.Context(), db)
		},
	})
	return cmd
}
