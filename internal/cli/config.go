package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix      = "REPERTREE"
	configBaseName = "config"

	pgnSiteKey  = "pgn.site"
	pgnEventKey = "pgn.event"

	cacheBackendKey       = "cache.backend"
	cacheRedisAddrKey     = "cache.redis_addr"
	cacheRedisPasswordKey = "cache.redis_password"
	cacheRedisDBKey       = "cache.redis_db"

	storeBackendKey  = "store.backend"
	storeDirKey      = "store.dir"
	storeMongoURIKey = "store.mongo_uri"
	storeMongoDBKey  = "store.mongo_db"

	serveAddrKey = "serve.addr"

	logFileKey       = "log.file"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"
)

// Backends.
const (
	backendNone   = "none"
	backendFile   = "file"
	backendRedis  = "redis"
	backendMemory = "memory"
	backendMongo  = "mongo"
)

const (
	defaultServeAddr     = ":8080"
	defaultMongoDB       = "repertree"
	defaultRedisAddr     = "localhost:6379"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
)

// Config is the layered configuration: defaults, then the config file,
// then REPERTREE_* environment variables. Command flags win over all of
// these.
type Config struct {
	PGN struct {
		Site  string `mapstructure:"site"`
		Event string `mapstructure:"event"`
	} `mapstructure:"pgn"`

	Cache struct {
		Backend       string `mapstructure:"backend"`
		RedisAddr     string `mapstructure:"redis_addr"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`

	Store struct {
		Backend  string `mapstructure:"backend"`
		Dir      string `mapstructure:"dir"`
		MongoURI string `mapstructure:"mongo_uri"`
		MongoDB  string `mapstructure:"mongo_db"`
	} `mapstructure:"store"`

	Serve struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"serve"`

	Log struct {
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(pgnSiteKey, "")
	v.SetDefault(pgnEventKey, "")
	v.SetDefault(cacheBackendKey, backendFile)
	v.SetDefault(cacheRedisAddrKey, defaultRedisAddr)
	v.SetDefault(cacheRedisPasswordKey, "")
	v.SetDefault(cacheRedisDBKey, 0)
	v.SetDefault(storeBackendKey, backendMemory)
	v.SetDefault(storeDirKey, "")
	v.SetDefault(storeMongoURIKey, "")
	v.SetDefault(storeMongoDBKey, defaultMongoDB)
	v.SetDefault(serveAddrKey, defaultServeAddr)
	v.SetDefault(logFileKey, "")
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, true)
	return v
}

// defaultConfig returns the configuration with nothing but defaults and
// environment applied.
func defaultConfig() *Config {
	var cfg Config
	_ = newViper().Unmarshal(&cfg)
	return &cfg
}

// loadConfig reads path, or config.yaml under the config directory when
// path is empty. A missing default file is not an error; a missing
// explicit file is.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else if dir, err := configDir(); err == nil {
		v.SetConfigName(configBaseName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendNone, backendFile, backendRedis:
	default:
		return fmt.Errorf("invalid %s: %q (must be one of: none, file, redis)", cacheBackendKey, c.Cache.Backend)
	}
	switch c.Store.Backend {
	case backendMemory, backendFile, backendMongo:
	default:
		return fmt.Errorf("invalid %s: %q (must be one of: memory, file, mongo)", storeBackendKey, c.Store.Backend)
	}
	if c.Store.Backend == backendMongo && c.Store.MongoURI == "" {
		return fmt.Errorf("%s is required for the mongo store", storeMongoURIKey)
	}
	return nil
}

// logWriter returns the rotating log file writer, or nil when no log file
// is configured.
func (c *Config) logWriter() io.WriteCloser {
	if strings.TrimSpace(c.Log.File) == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}
