package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/keywarden/keywarden/api/helpers"
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/services/auth"
	"github.com/keywarden/keywarden/services/secrets"
	log "github.com/sirupsen/logrus"
)

// Route declares the API surface. Everything except register and login
// requires a bearer token; every mutating project/secret route is audited.
func Route(store db.Store, authService *auth.AuthService, secretService *secrets.SecretService) *mux.Router {
	authCtrl := &AuthController{AuthService: authService}
	secretCtrl := &SecretController{SecretService: secretService}

	r := mux.NewRouter()
	r.Use(helpers.StoreMiddleware(store))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authCtrl.Register).Methods("POST")
	api.HandleFunc("/auth/login", authCtrl.Login).Methods("POST")

	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(authCtrl.AuthMiddleware)

	authenticated.HandleFunc("/auth/logout", authCtrl.Logout).Methods("POST")
	authenticated.HandleFunc("/auth/change-password", authCtrl.ChangePassword).Methods("POST")

	authenticated.HandleFunc("/projects", GetProjects).Methods("GET")
	authenticated.HandleFunc("/projects", Audited("create_project", AddProject)).Methods("POST")

	project := authenticated.PathPrefix("/projects/{project_id}").Subrouter()
	project.Use(ProjectMiddleware)
	project.HandleFunc("", GetProject).Methods("GET")
	project.HandleFunc("", Audited("update_project", UpdateProject)).Methods("PUT")
	project.HandleFunc("", Audited("delete_project", RemoveProject)).Methods("DELETE")

	authenticated.HandleFunc("/secrets", secretCtrl.GetSecrets).Methods("GET")
	authenticated.HandleFunc("/secrets", Audited("create_secret", secretCtrl.AddSecret)).Methods("POST")

	secret := authenticated.PathPrefix("/secrets/{secret_id}").Subrouter()
	secret.Use(secretCtrl.SecretMiddleware)
	secret.HandleFunc("", secretCtrl.GetSecret).Methods("GET")
	secret.HandleFunc("", Audited("update_secret", secretCtrl.UpdateSecret)).Methods("PUT")
	secret.HandleFunc("", Audited("delete_secret", secretCtrl.RemoveSecret)).Methods("DELETE")
	secret.HandleFunc("/download", secretCtrl.DownloadSecret).Methods("GET")

	authenticated.HandleFunc("/keys/{key_id}/public_key", secretCtrl.GetPublicKey).Methods("GET")
	authenticated.HandleFunc("/keys/{key_id}/download", secretCtrl.DownloadKeyPair).Methods("GET")

	authenticated.HandleFunc("/operations", GetOperations).Methods("GET")

	return r
}

// Wrap adds access logging and panic recovery around the router.
func Wrap(router *mux.Router) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()))(
		handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), router))
}
