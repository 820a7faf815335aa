package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ListTTL  time.Duration
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
	Region        string
	OpTimeout     time.Duration
}

type SecurityConfig struct {
	JWTSecret     string
	AdminTokenTTL time.Duration
	UserTokenTTL  time.Duration
	CookieDomain  string
}

type FirebaseConfig struct {
	ProjectID     string
	VerifyTimeout time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Mongo            MongoConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Firebase         FirebaseConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("GALLERIA")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "galleria")
	v.SetDefault("mongo.connecttimeout", "10s")
	v.SetDefault("mongo.maxpoolsize", 50)
	v.SetDefault("mongo.minpoolsize", 5)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.listttl", "60s")

	v.SetDefault("storage.bucket", "galleria-images")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.optimeout", "30s")

	v.SetDefault("security.admintokenttl", "168h") // 7 days
	v.SetDefault("security.usertokenttl", "720h")  // 30 days

	v.SetDefault("firebase.verifytimeout", "10s")
}
