package cmd

import (
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Execute database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		if err := util.ConfigInit(configPath); err != nil {
			log.WithError(err).Fatal("Invalid configuration")
		}

		store := createStore()
		defer store.Close()

		if err := store.Migrate(); err != nil {
			log.WithError(err).Fatal("Failed to apply database migrations")
		}

		if err := db.SeedSecretTypes(store); err != nil {
			log.WithError(err).Fatal("Failed to seed secret types")
		}

		log.Info("Database migrations applied")
	},
}
