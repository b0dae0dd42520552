package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"karaoke-browser/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Cache       Cache       `json:"cache"`
	RedisClient RedisClient `json:"redisClient"`
	Database    Database    `json:"database"`
	Events      Events      `json:"events"`
	Catalog     Catalog     `json:"catalog"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	AllowedOrigins []string `json:"allowedOrigins"`
	// SessionIdleMinutes prunes browsing sessions nobody touched for that long.
	SessionIdleMinutes int `json:"sessionIdleMinutes"`
}

type YouTube struct {
	APIKeys           []string `json:"apiKeys"`
	Endpoint          string   `json:"endpoint"`
	MaxResults        int64    `json:"maxResults"`
	QuerySuffix       string   `json:"querySuffix"`
	RequestsPerSecond float64  `json:"requestsPerSecond"`
	Burst             int      `json:"burst"`
	TimeoutSeconds    int      `json:"timeoutSeconds"`
}

type Cache struct {
	Backend     string `json:"backend"` // memory | redis | leveldb
	TTLMinutes  int    `json:"ttlMinutes"`
	Prefix      string `json:"prefix"`
	MaxBytes    int64  `json:"maxBytes"`
	LevelDBPath string `json:"leveldbPath"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	Namespace    string `json:"namespace"`
}

type Database struct {
	Library string `json:"library"` // sqlite | postgres | mssql | mongo
	Psql    Db     `json:"psql"`
	Mssql   Db     `json:"mssql"`
	Mongo   Db     `json:"mongo"`
	Sqlite  Sqlite `json:"sqlite"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type Sqlite struct {
	Path string `json:"path"`
}

type Events struct {
	Pubsub     Pubsub     `json:"pubsub"`
	ServiceBus ServiceBus `json:"serviceBus"`
	Nats       Nats       `json:"nats"`
	LogEvents  bool       `json:"logEvents"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type Nats struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type Catalog struct {
	Path string `json:"path"`
}

type Logger struct {
	Level string `json:"level"`
}

const (
	defaultPort         = 10001
	defaultCacheTTL     = 120
	defaultCachePrefix  = "yt_karaoke_v1_"
	defaultMaxResults   = 12
	defaultQuerySuffix  = " karaoke"
	defaultSessionIdle  = 60
	defaultLevelDBPath  = "./data/leveldb"
	defaultSqlitePath   = "./data/karaoke.db"
	defaultEventSubject = "karaoke.events"
)

var C Config

func init() {
	Reload()
}

// Reload reads the config file again and reapplies environment overrides.
// main calls it after loading env files.
func Reload() {
	C = Config{}
	LoadConfig()
	initApp(&C)
	initYouTube(&C)
	initCache(&C)
	initDatabase(&C)
	initEvents(&C)
	if C.Logger.Level != "" {
		logger.SetLevel(C.Logger.Level)
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// CacheTTL returns the result cache TTL as a duration.
func (c Cache) CacheTTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SessionIdle returns the idle window after which sessions are pruned.
func (a App) SessionIdle() time.Duration {
	return time.Duration(a.SessionIdleMinutes) * time.Minute
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = defaultPort
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = splitList(v)
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:4173"}
	}
	if C.App.SessionIdleMinutes <= 0 {
		C.App.SessionIdleMinutes = defaultSessionIdle
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; anonymous sign-in tokens cannot be issued. Provide SECRET_KEY via environment.")
	}
}

func initCache(C *Config) {
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		C.Cache.Backend = v
	}
	if C.Cache.Backend == "" {
		C.Cache.Backend = "memory"
	}
	if C.Cache.TTLMinutes <= 0 {
		C.Cache.TTLMinutes = defaultCacheTTL
	}
	if C.Cache.Prefix == "" {
		C.Cache.Prefix = defaultCachePrefix
	}
	if C.Cache.LevelDBPath == "" {
		C.Cache.LevelDBPath = defaultLevelDBPath
	}
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
	if C.RedisClient.Namespace == "" {
		C.RedisClient.Namespace = "karaoke:"
	}
}

func initDatabase(C *Config) {
	if v := os.Getenv("LIBRARY_BACKEND"); v != "" {
		C.Database.Library = v
	}
	if C.Database.Library == "" {
		C.Database.Library = "sqlite"
	}
	if C.Database.Sqlite.Path == "" {
		C.Database.Sqlite.Path = getEnv("SQLITE_PATH", defaultSqlitePath)
	}
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = getEnv("DB_PORT", "5432")
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = "disable"
	}

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = getEnv("MSSQL_HOST", "localhost")
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = getEnv("MSSQL_PORT", "1433")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}

	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = os.Getenv("MONGO_HOST")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = getEnv("MONGO_PORT", "27017")
	}
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = getEnv("MONGO_DB_NAME", "karaoke")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}
}

func initEvents(C *Config) {
	if C.Events.Pubsub.ProjectID == "" {
		C.Events.Pubsub.ProjectID = os.Getenv("PUBSUB_PROJECT_ID")
	}
	if C.Events.Pubsub.Topic == "" {
		C.Events.Pubsub.Topic = "karaoke-events"
	}
	if C.Events.ServiceBus.Namespace == "" {
		C.Events.ServiceBus.Namespace = os.Getenv("SERVICEBUS_NAMESPACE")
	}
	if C.Events.ServiceBus.Queue == "" {
		C.Events.ServiceBus.Queue = "karaoke-events"
	}
	if C.Events.Nats.URL == "" {
		C.Events.Nats.URL = os.Getenv("NATS_URL")
	}
	if C.Events.Nats.Subject == "" {
		C.Events.Nats.Subject = defaultEventSubject
	}
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
