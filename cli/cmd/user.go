package cmd

import (
	"os"
	"time"

	"github.com/keywarden/keywarden/services/auth"
	"github.com/keywarden/keywarden/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	userUsername string
	userPassword string
)

func init() {
	userAddCmd.Flags().StringVar(&userUsername, "login", "", "Username")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password")

	userChangePasswordCmd.Flags().StringVar(&userUsername, "login", "", "Username")
	userChangePasswordCmd.Flags().StringVar(&userPassword, "password", "", "New password")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userChangePasswordCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage users",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

func authServiceFromConfig() *auth.AuthService {
	if err := util.ConfigInit(configPath); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	store := createStore()

	return auth.NewAuthService(
		store,
		util.Config.AccessTokenSecret,
		time.Duration(util.Config.AccessTokenTTLHours)*time.Hour)
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add new user",
	Run: func(cmd *cobra.Command, args []string) {
		if userUsername == "" || userPassword == "" {
			_ = cmd.Help()
			os.Exit(1)
		}

		service := authServiceFromConfig()

		user, err := service.Register(userUsername, userPassword)
		if err != nil {
			log.WithError(err).Fatal("Failed to create user")
		}

		log.Infof("User %s created", user.Username)
	},
}

var userChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Overwrite a user's password",
	Run: func(cmd *cobra.Command, args []string) {
		if userUsername == "" || userPassword == "" {
			_ = cmd.Help()
			os.Exit(1)
		}

		if err := util.ConfigInit(configPath); err != nil {
			log.WithError(err).Fatal("Invalid configuration")
		}

		store := createStore()

		user, err := store.GetUserByUsername(userUsername)
		if err != nil {
			log.WithError(err).Fatal("User not found")
		}

		service := auth.NewAuthService(store, util.Config.AccessTokenSecret, time.Hour)

		if err := service.ResetPassword(user.ID, userPassword); err != nil {
			log.WithError(err).Fatal("Failed to change password")
		}

		log.Infof("Password of user %s changed", user.Username)
	},
}
