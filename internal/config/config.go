// Package config resolves runtime settings from the process environment.
//
// A .env file in the working directory is loaded first when present. The
// deployment environment (APP_ENV) selects which set of database keys is read:
// "test" reads TEST_DB_*, everything else reads DB_*.
package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Env            string
	Port           string
	AutoMigrate    bool
	AllowedOrigins []string
	Database       DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN returns the key/value connection string understood by the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL returns the same settings as a postgres:// URL.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// WithName returns a copy pointing at another database on the same server.
func (d DatabaseConfig) WithName(name string) DatabaseConfig {
	d.Name = name
	return d
}

// Load reads the .env file (if any) and resolves the configuration for the
// environment named by APP_ENV.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	v := newViper()
	return fromViper(v, v.GetString("APP_ENV"))
}

// LoadFor resolves the configuration for an explicit environment, ignoring
// APP_ENV. It does not read .env files.
func LoadFor(env string) (*Config, error) {
	return fromViper(newViper(), env)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")
	v.SetDefault("AUTO_MIGRATE", false)

	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "chirp")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("TEST_DB_HOST", "test-db")
	v.SetDefault("TEST_DB_PORT", "5432")
	v.SetDefault("TEST_DB_NAME", "chirp_test")
	v.SetDefault("TEST_DB_USER", "postgres")
	v.SetDefault("TEST_DB_PASSWORD", "postgres")
	v.SetDefault("TEST_DB_SSLMODE", "disable")

	return v
}

func fromViper(v *viper.Viper, env string) (*Config, error) {
	env = strings.ToLower(strings.TrimSpace(env))

	switch env {
	case "":
		env = EnvDevelopment
	case EnvProduction, EnvDevelopment, EnvTest:
	default:
		return nil, fmt.Errorf("unknown APP_ENV %q", env)
	}

	prefix := "DB_"
	if env == EnvTest {
		prefix = "TEST_DB_"
	}

	cfg := &Config{
		Env:            env,
		Port:           v.GetString("PORT"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),
		AllowedOrigins: allowedOrigins(v.GetString("CLIENT_URL"), v.GetString("ALLOWED_ORIGINS")),
		Database: DatabaseConfig{
			Host:     v.GetString(prefix + "HOST"),
			Port:     v.GetString(prefix + "PORT"),
			Name:     v.GetString(prefix + "NAME"),
			User:     v.GetString(prefix + "USER"),
			Password: v.GetString(prefix + "PASSWORD"),
			SSLMode:  v.GetString(prefix + "SSLMODE"),
		},
	}

	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("%sNAME must not be empty", prefix)
	}

	return cfg, nil
}

func allowedOrigins(clientURL, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
