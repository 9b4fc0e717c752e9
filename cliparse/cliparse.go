package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Identity resolution modes
const (
	IdentityName  = "name"
	IdentityToken = "token"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminPassword string
	AppURL        string
	IdentityMode  string
	// Business-rule knobs; both changed across deployments historically,
	// so they are configuration, not literals.
	NominationQuota int
	MaxSelections   int
	AllowRollback   bool
}

// ParseFlags validates flags and applies env fallbacks and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("kudos", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AppURL, "app-url", "", "Frontend base URL for redirects and CORS")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin shared secret (prefer env)")

	// Session rules
	fs.StringVar(&cfg.IdentityMode, "identity", "", "Identity mode (name or token)")
	fs.IntVar(&cfg.NominationQuota, "quota", 0, "Nominations allowed per person per session")
	fs.IntVar(&cfg.MaxSelections, "max-selections", 0, "Nominations selectable on one ballot")
	rollback := fs.String("rollback", "", "Allow backward phase transitions (true or false)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	if cfg.AppURL == "" {
		cfg.AppURL = os.Getenv("APP_URL")
		if cfg.AppURL == "" {
			cfg.AppURL = "http://localhost:3000"
		}
	}

	if cfg.IdentityMode == "" {
		cfg.IdentityMode = os.Getenv("IDENTITY_MODE")
		if cfg.IdentityMode == "" {
			cfg.IdentityMode = IdentityName
		}
	}
	if cfg.IdentityMode != IdentityName && cfg.IdentityMode != IdentityToken {
		return Config{}, fmt.Errorf("unsupported identity mode %q (name or token)", cfg.IdentityMode)
	}

	if cfg.NominationQuota == 0 {
		if s := os.Getenv("NOMINATION_QUOTA"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid NOMINATION_QUOTA env variable")
			}
			cfg.NominationQuota = n
		} else {
			cfg.NominationQuota = 3
		}
	}
	if cfg.NominationQuota < 1 {
		return Config{}, errors.New("nomination quota must be at least 1")
	}

	if cfg.MaxSelections == 0 {
		if s := os.Getenv("MAX_SELECTIONS"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid MAX_SELECTIONS env variable")
			}
			cfg.MaxSelections = n
		} else {
			cfg.MaxSelections = 3
		}
	}
	if cfg.MaxSelections < 0 {
		return Config{}, errors.New("max selections must not be negative")
	}

	// Phase rollback policy: default is the bidirectional graph
	rollbackStr := *rollback
	if rollbackStr == "" {
		rollbackStr = os.Getenv("PHASE_ROLLBACK")
	}
	switch rollbackStr {
	case "", "true", "1":
		cfg.AllowRollback = true
	case "false", "0":
		cfg.AllowRollback = false
	default:
		return Config{}, fmt.Errorf("invalid rollback value %q (true or false)", rollbackStr)
	}

	return cfg, nil
}
