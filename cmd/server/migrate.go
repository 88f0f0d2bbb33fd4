package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/database"
	"terminal-terrace/blog-service/internal/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(conf.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.OpenPostgres(conf.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info("migration finished", zap.String("database", conf.Database.Database))
			return nil
		},
	}
}
