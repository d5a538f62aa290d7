package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jaekwang-park/todo-tracker/internal/model"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validBackends = map[string]bool{
	"sql":    true,
	"blob":   true,
	"memory": true,
}

var validDrivers = map[string]bool{
	"sqlite3":  true,
	"postgres": true,
}

type Config struct {
	ServerPort  string `toml:"server_port"`
	AppEnv      string `toml:"app_env"`
	AuthDevMode bool   `toml:"auth_dev_mode"`
	LogLevel    string `toml:"log_level"`
	SortOption  string `toml:"sort_option"`
	// OwnerSub is the Cognito subject of the only account allowed in.
	OwnerSub string `toml:"owner_sub"`

	Storage StorageConfig `toml:"storage"`
	DB      DBConfig      `toml:"db"`
	Blob    BlobConfig    `toml:"blob"`
	Cognito CognitoConfig `toml:"cognito"`
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sort returns the configured default sort option.
func (c Config) Sort() model.SortOption {
	opt, err := model.ParseSortOption(c.SortOption)
	if err != nil {
		return model.SortCreatedNewest
	}
	return opt
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be one of sql, blob, memory", c.Storage.Backend)
	}
	if !validDrivers[c.DB.Driver] {
		return fmt.Errorf("invalid DB_DRIVER %q: must be one of sqlite3, postgres", c.DB.Driver)
	}
	if _, err := model.ParseSortOption(c.SortOption); err != nil {
		return fmt.Errorf("invalid SORT_OPTION: %w", err)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.OwnerSub == "" {
			return fmt.Errorf("OWNER_SUB is required when AUTH_DEV_MODE is disabled")
		}
	}
	return nil
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	// DataDir holds the sqlite file and the file blob store unless they are
	// set explicitly.
	DataDir string `toml:"data_dir"`
}

type DBConfig struct {
	Driver   string `toml:"driver"`
	Path     string `toml:"path"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// DSN builds the data source name for the configured driver.
func (d DBConfig) DSN() string {
	if d.Driver == "sqlite3" {
		return fmt.Sprintf("file:%s?_busy_timeout=5000", d.Path)
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type BlobConfig struct {
	Dir      string `toml:"dir"`
	S3Bucket string `toml:"s3_bucket"`
	S3Prefix string `toml:"s3_prefix"`
	S3Region string `toml:"s3_region"`
}

type CognitoConfig struct {
	Region          string `toml:"region"`
	UserPoolID      string `toml:"user_pool_id"`
	AppClientID     string `toml:"app_client_id"`
	AppClientSecret string `toml:"app_client_secret"`
}

// Load reads CONFIG_FILE (TOML) when set and then applies environment
// variables on top. Unknown keys in the file are an error.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			slices.Sort(keys)
			return Config{}, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
		}
	}

	applyEnv(&cfg)

	if cfg.DB.Path == "" {
		cfg.DB.Path = filepath.Join(cfg.Storage.DataDir, "todos.db")
	}
	if cfg.Blob.Dir == "" {
		cfg.Blob.Dir = filepath.Join(cfg.Storage.DataDir, "blobs")
	}
	if cfg.Blob.S3Region == "" {
		cfg.Blob.S3Region = cfg.Cognito.Region
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		ServerPort: "8080",
		AppEnv:     "local",
		LogLevel:   "info",
		SortOption: string(model.SortCreatedNewest),
		Storage: StorageConfig{
			Backend: "sql",
			DataDir: defaultDataDir(),
		},
		DB: DBConfig{
			Driver:   "sqlite3",
			Host:     "localhost",
			Port:     "5432",
			User:     "todo",
			Password: "todo",
			Name:     "todo",
			SSLMode:  "disable",
		},
		Cognito: CognitoConfig{
			Region: "ap-northeast-1",
		},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".todo-tracker"
	}
	return filepath.Join(dir, "todo-tracker")
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = envOrDefault("SERVER_PORT", cfg.ServerPort)
	cfg.AppEnv = envOrDefault("APP_ENV", cfg.AppEnv)
	if v := os.Getenv("AUTH_DEV_MODE"); v != "" {
		cfg.AuthDevMode = strings.EqualFold(v, "true")
	}
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.SortOption = envOrDefault("SORT_OPTION", cfg.SortOption)
	cfg.OwnerSub = envOrDefault("OWNER_SUB", cfg.OwnerSub)

	cfg.Storage.Backend = envOrDefault("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.DataDir = envOrDefault("DATA_DIR", cfg.Storage.DataDir)

	cfg.DB.Driver = envOrDefault("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Path = envOrDefault("DB_PATH", cfg.DB.Path)
	cfg.DB.Host = envOrDefault("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = envOrDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.User = envOrDefault("DB_USER", cfg.DB.User)
	cfg.DB.Password = envOrDefault("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envOrDefault("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = envOrDefault("DB_SSLMODE", cfg.DB.SSLMode)

	cfg.Blob.Dir = envOrDefault("BLOB_DIR", cfg.Blob.Dir)
	cfg.Blob.S3Bucket = envOrDefault("BLOB_S3_BUCKET", cfg.Blob.S3Bucket)
	cfg.Blob.S3Prefix = envOrDefault("BLOB_S3_PREFIX", cfg.Blob.S3Prefix)
	cfg.Blob.S3Region = envOrDefault("BLOB_S3_REGION", cfg.Blob.S3Region)

	cfg.Cognito.Region = envOrDefault("COGNITO_REGION", cfg.Cognito.Region)
	cfg.Cognito.UserPoolID = envOrDefault("COGNITO_USER_POOL_ID", cfg.Cognito.UserPoolID)
	cfg.Cognito.AppClientID = envOrDefault("COGNITO_APP_CLIENT_ID", cfg.Cognito.AppClientID)
	cfg.Cognito.AppClientSecret = envOrDefault("COGNITO_APP_CLIENT_SECRET", cfg.Cognito.AppClientSecret)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
