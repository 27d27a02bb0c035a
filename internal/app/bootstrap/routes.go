// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	applicationsfeature "github.com/campusworks/placementhub/internal/app/features/applications"
	authfeature "github.com/campusworks/placementhub/internal/app/features/auth"
	connectionsfeature "github.com/campusworks/placementhub/internal/app/features/connections"
	dashboardfeature "github.com/campusworks/placementhub/internal/app/features/dashboard"
	forumfeature "github.com/campusworks/placementhub/internal/app/features/forum"
	healthfeature "github.com/campusworks/placementhub/internal/app/features/health"
	jobsfeature "github.com/campusworks/placementhub/internal/app/features/jobs"
	messagesfeature "github.com/campusworks/placementhub/internal/app/features/messages"
	notificationsfeature "github.com/campusworks/placementhub/internal/app/features/notifications"
	profilefeature "github.com/campusworks/placementhub/internal/app/features/profile"
	reviewsfeature "github.com/campusworks/placementhub/internal/app/features/reviews"
	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// PlacementHub mounts the JSON API under /api plus the health endpoint.
// The bearer-token middleware runs globally so that public routes can
// still personalize their responses when a caller is signed in.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := sysauth.NewManager(appCfg.JWTSecret, appCfg.TokenTTL)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(appCfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Global token middleware: loads TokenUser into context if the caller
	// presented a valid bearer token. Route-level guards decide whether a
	// signed-in caller is actually required.
	r.Use(tokens.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(r chi.Router) {
		authHandler := authfeature.NewHandler(deps.MongoDatabase, tokens, appCfg.StudentEmailDomain, appCfg.BcryptCost, logger)
		r.Mount("/auth", authfeature.Routes(authHandler))

		profileHandler := profilefeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/profile", profilefeature.Routes(profileHandler))

		jobsHandler := jobsfeature.NewHandler(deps.MongoDatabase, deps.MongoClient, logger)
		r.Mount("/jobs", jobsfeature.Routes(jobsHandler))

		applicationsHandler := applicationsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/applications", applicationsfeature.Routes(applicationsHandler))

		forumHandler := forumfeature.NewHandler(deps.MongoDatabase, deps.MongoClient, logger)
		r.Mount("/forum", forumfeature.Routes(forumHandler))

		dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		connectionsHandler := connectionsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/connections", connectionsfeature.Routes(connectionsHandler))

		messagesHandler := messagesfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/messages", messagesfeature.Routes(messagesHandler))

		notificationsHandler := notificationsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

		reviewsHandler := reviewsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler))
	})

	return r, nil
}
