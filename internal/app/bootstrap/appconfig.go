// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging, and request limits. AppConfig is where everything
// specific to the placement portal lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token configuration
	JWTSecret string        // Secret for signing bearer tokens (must be strong in production)
	TokenTTL  time.Duration // How long issued tokens stay valid

	// Account partition: students must register with an address in this
	// domain; recruiters must not.
	StudentEmailDomain string

	// Password hashing cost. Lower values are only for tests.
	BcryptCost int

	// Comma-separated list of allowed CORS origins ("*" allows any).
	CORSOrigins string
}
