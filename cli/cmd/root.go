package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/keywarden/keywarden/api"
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/db/factory"
	"github.com/keywarden/keywarden/services/auth"
	"github.com/keywarden/keywarden/services/keygen"
	"github.com/keywarden/keywarden/services/secrets"
	"github.com/keywarden/keywarden/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "keywarden",
	Short: "Secrets management server",
	Long:  `KeyWarden organizes cryptographic secrets under projects, generates key material on demand and audits every change.`,
	Run: func(cmd *cobra.Command, args []string) {
		runService()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
}

func createStore() db.Store {
	store := factory.CreateStore()

	if err := store.Connect(); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	return store
}

func runService() {
	if err := util.ConfigInit(configPath); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	util.LoggingInit()

	store := createStore()
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.WithError(err).Fatal("Failed to apply database migrations")
	}

	if err := db.SeedSecretTypes(store); err != nil {
		log.WithError(err).Fatal("Failed to seed secret types")
	}

	pool := keygen.CreatePool(util.Config.KeygenWorkers)
	defer pool.Stop()

	authService := auth.NewAuthService(
		store,
		util.Config.AccessTokenSecret,
		time.Duration(util.Config.AccessTokenTTLHours)*time.Hour)

	secretService := secrets.NewSecretService(store, pool)

	router := api.Route(store, authService, secretService)

	log.Infof("Server is running on %s", util.Config.Port)

	err := http.ListenAndServe(util.Config.Port, api.Wrap(router))
	if err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
