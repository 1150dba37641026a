package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"port" validate:"required,numeric"`
	DBDSN    string `mapstructure:"db_dsn" validate:"required"`
	MediaDir string `mapstructure:"media_dir"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	StoreBackend  string        `mapstructure:"store_backend" validate:"oneof=sqlite redis"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=StoreBackend redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	CatalogKey    string        `mapstructure:"catalog_key" validate:"required"`
	LockTTL       time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
	SeedCatalog   bool          `mapstructure:"seed_catalog"`

	FirestoreProject    string        `mapstructure:"firestore_project"`
	FirestoreCollection string        `mapstructure:"firestore_collection" validate:"required"`
	MirrorSchedule      string        `mapstructure:"mirror_schedule"`
	MirrorAttempts      int           `mapstructure:"mirror_attempts" validate:"gte=1,lte=10"`
	MirrorBackoff       time.Duration `mapstructure:"mirror_backoff" validate:"gte=0"`

	AdminEmail    string `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password"`
}

var defaults = map[string]any{
	"port":                 "8081",
	"db_dsn":               "ktmobile.db",
	"media_dir":            "./web/media",
	"log_file":             "./ktmobile.log",
	"log_level":            "info",
	"store_backend":        "sqlite",
	"redis_addr":           "",
	"redis_password":       "",
	"redis_db":             0,
	"catalog_key":          "ktmobile_phones",
	"lock_ttl":             "30s",
	"seed_catalog":         true,
	"firestore_project":    "",
	"firestore_collection": "settings",
	"mirror_schedule":      "0 */5 * * * *",
	"mirror_attempts":      3,
	"mirror_backoff":       "1s",
	"admin_email":          "admin@ktmobile.test",
	"admin_password":       "Passw0rd!",
}

var validate = validator.New()

// Loader reads .env, an optional ktmobile.yml and the environment, in rising priority.
type Loader struct {
	v *viper.Viper
}

func NewLoader(paths ...string) *Loader {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("ktmobile")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "/etc/ktmobile"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return &Loader{v: v}
}

func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Watch calls fn with the new config whenever ktmobile.yml changes. Invalid
// edits are reported through onErr and ignored.
func (l *Loader) Watch(fn func(Config), onErr func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}

// Load is NewLoader().Load().
func Load() (Config, error) {
	return NewLoader().Load()
}

func (c Config) MirrorEnabled() bool { return c.FirestoreProject != "" }

func (c Config) String() string {
	return fmt.Sprintf("PORT=%s DB_DSN=%s STORE_BACKEND=%s CATALOG_KEY=%s FIRESTORE_PROJECT=%s LOG_FILE=%s",
		c.Port, c.DBDSN, c.StoreBackend, c.CatalogKey, c.FirestoreProject, c.LogFile)
}
