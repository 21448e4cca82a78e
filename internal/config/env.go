package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
	// AuthNone serves every request as DQ_USER.
	AuthNone = "none"
)

// Env is the process configuration read from the environment.
type Env struct {
	DBPath      string `env:"DQ_DB_PATH"`
	Backend     string `env:"DQ_BACKEND" envDefault:"sqlite"`
	BalanceFile string `env:"DQ_BALANCE_FILE"`

	// User and Email identify the local user of the CLI.
	User  string `env:"DQ_USER" envDefault:"local"`
	Email string `env:"DQ_EMAIL"`

	Timezone string `env:"DQ_TIMEZONE" envDefault:"UTC"`
	HTTPAddr string `env:"DQ_HTTP_ADDR" envDefault:":8080"`

	Auth      string `env:"DQ_AUTH" envDefault:"jwt"`
	JWTSecret string `env:"DQ_JWT_SECRET"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Push              bool   `env:"DQ_PUSH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads an optional .env file from the working directory and then
// parses the environment. Variables already set win over the file.
func LoadEnv() (*Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *Env) Validate() error {
	e.Backend = strings.ToLower(strings.TrimSpace(e.Backend))
	switch e.Backend {
	case BackendSQLite, BackendFirestore:
	default:
		return fmt.Errorf("invalid DQ_BACKEND: %q", e.Backend)
	}
	e.Auth = strings.ToLower(strings.TrimSpace(e.Auth))
	switch e.Auth {
	case AuthJWT, AuthFirebase, AuthNone:
	default:
		return fmt.Errorf("invalid DQ_AUTH: %q", e.Auth)
	}
	if strings.TrimSpace(e.User) == "" {
		return fmt.Errorf("DQ_USER must not be empty")
	}
	if _, err := e.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone in which days start.
func (e *Env) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DQ_TIMEZONE %q: %w", e.Timezone, err)
	}
	return loc, nil
}
