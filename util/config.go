package util

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
)

const (
	DbDriverSQLite   = "sqlite"
	DbDriverMySQL    = "mysql"
	DbDriverPostgres = "postgres"
	DbDriverBolt     = "bolt"
)

type DbConfig struct {
	Dialect string `json:"dialect"`

	Hostname string `json:"host"`
	Username string `json:"user"`
	Password string `json:"pass"`
	DbName   string `json:"name"`
}

// ConnectionString builds the driver DSN for the configured dialect.
// For sqlite and bolt, DbName is the file path.
func (c *DbConfig) ConnectionString() string {
	switch c.Dialect {
	case DbDriverMySQL:
		// clientFoundRows makes RowsAffected count matched rows, so a
		// no-op update is not mistaken for a missing row.
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&clientFoundRows=true", c.Username, c.Password, c.Hostname, c.DbName)
	case DbDriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable", c.Hostname, c.Username, c.Password, c.DbName)
	default:
		return c.DbName
	}
}

type ConfigType struct {
	Port string `json:"port"`

	Db DbConfig `json:"db"`

	// AccessTokenSecret signs issued JWTs (HS256). Required.
	AccessTokenSecret string `json:"access_token_secret"`

	// AccessTokenTTLHours bounds token lifetime. Default 24.
	AccessTokenTTLHours int `json:"access_token_ttl_hours"`

	// KeygenWorkers caps concurrent key generation. Default NumCPU.
	KeygenWorkers int `json:"keygen_workers"`

	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level"`
}

// Config is the process-wide configuration, populated by ConfigInit.
var Config *ConfigType

func NewConfig() *ConfigType {
	return &ConfigType{
		Port: ":8080",
		Db: DbConfig{
			Dialect: DbDriverBolt,
			DbName:  "keywarden.db",
		},
		AccessTokenTTLHours: 24,
		KeygenWorkers:       runtime.NumCPU(),
		LogLevel:            "info",
	}
}

// ConfigInit loads the JSON config file at path (optional) and applies
// KEYWARDEN_* environment overrides.
func ConfigInit(path string) error {
	Config = NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read config file %s: %w", path, err)
		}

		if err = json.Unmarshal(data, Config); err != nil {
			return fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	readEnvironment()

	return validateConfig()
}

func readEnvironment() {
	if v := os.Getenv("KEYWARDEN_PORT"); v != "" {
		Config.Port = v
	}
	if v := os.Getenv("KEYWARDEN_DB_DIALECT"); v != "" {
		Config.Db.Dialect = v
	}
	if v := os.Getenv("KEYWARDEN_DB_HOST"); v != "" {
		Config.Db.Hostname = v
	}
	if v := os.Getenv("KEYWARDEN_DB_USER"); v != "" {
		Config.Db.Username = v
	}
	if v := os.Getenv("KEYWARDEN_DB_PASS"); v != "" {
		Config.Db.Password = v
	}
	if v := os.Getenv("KEYWARDEN_DB_NAME"); v != "" {
		Config.Db.DbName = v
	}
	if v := os.Getenv("KEYWARDEN_ACCESS_TOKEN_SECRET"); v != "" {
		Config.AccessTokenSecret = v
	}
	if v := os.Getenv("KEYWARDEN_KEYGEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			Config.KeygenWorkers = n
		}
	}
	if v := os.Getenv("KEYWARDEN_LOG_LEVEL"); v != "" {
		Config.LogLevel = v
	}
}

func validateConfig() error {
	switch Config.Db.Dialect {
	case DbDriverSQLite, DbDriverMySQL, DbDriverPostgres, DbDriverBolt:
	default:
		return fmt.Errorf("unsupported database dialect: %s", Config.Db.Dialect)
	}

	if Config.AccessTokenSecret == "" {
		return fmt.Errorf("access_token_secret is required")
	}

	if Config.KeygenWorkers < 1 {
		Config.KeygenWorkers = 1
	}

	return nil
}
