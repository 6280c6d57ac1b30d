package api

import (
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/jobs"
	"github.com/garnizeh/jobboard/internal/repository/sqlite"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/internal/validate"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, store storage.Store, queue jobs.Enqueuer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(db, logger)
	validator := validate.MustNew()

	// Create handlers
	systemHandler := NewSystemHandler(db)
	authHandler := NewAuthHandler(repo, repo, cfg.JWTSecret, cfg.TokenDuration)
	statusHandler := NewStatusHandler(repo, validator)
	applicationHandler := NewApplicationHandler(repo, validator)
	fileHandler := NewFileHandler(repo, store, validator)
	accountHandler := NewAccountHandler(queue)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Board columns
	apiV1.HandleFunc("/status", statusHandler.List).Methods("GET")
	apiV1.HandleFunc("/status", statusHandler.Create).Methods("POST")
	apiV1.HandleFunc("/status/{id:[0-9]+}", statusHandler.Rename).Methods("PUT")
	apiV1.HandleFunc("/status/{id:[0-9]+}", statusHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/status/{id:[0-9]+}/move", statusHandler.Move).Methods("PUT")

	// Board cards
	apiV1.HandleFunc("/applications", applicationHandler.List).Methods("GET")
	apiV1.HandleFunc("/addjob", applicationHandler.Create).Methods("POST")
	apiV1.HandleFunc("/applications/{id:[0-9]+}", applicationHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/applications/{id:[0-9]+}/favorite", applicationHandler.ToggleFavourite).Methods("PUT")
	apiV1.HandleFunc("/applications/{id:[0-9]+}", applicationHandler.Delete).Methods("DELETE")

	// Documents
	apiV1.HandleFunc("/files/types", fileHandler.Types).Methods("GET")
	apiV1.HandleFunc("/files/presigned-upload", fileHandler.Presign).Methods("POST")
	apiV1.HandleFunc("/files", fileHandler.List).Methods("GET")
	apiV1.HandleFunc("/files", fileHandler.Create).Methods("POST")
	apiV1.HandleFunc("/files/{id:[0-9]+}", fileHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/files/{id:[0-9]+}", fileHandler.Delete).Methods("DELETE")

	// Account
	apiV1.HandleFunc("/account", accountHandler.Delete).Methods("DELETE")

	return r
}
