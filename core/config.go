package core

import (
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env           string   `mapstructure:"env"`
		Debug         bool     `mapstructure:"debug"`
		TestMode      bool     `mapstructure:"testMode"`
		AppName       string   `mapstructure:"appName"`
		Build         string   `mapstructure:"build"`
		SecretKey     string   `mapstructure:"secretKey"`
		RollbarToken  string   `mapstructure:"rollbarToken"`
		APIClientKeys []string `mapstructure:"apiClientKeys"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
	}

	ServerConfig struct {
		Address                   string        `mapstructure:"address"`
		Host                      string        `mapstructure:"host"`
		DebugHost                 string        `mapstructure:"debugHost"`
		CORSOrigins               []string      `mapstructure:"corsOrigins"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtRefreshExpirationDelta"`
		ShutdownTimeout           time.Duration `mapstructure:"shutdownTimeout"`
	}

	DatabaseConfig struct {
		Engine  string        `mapstructure:"engine"` // mongodb | inmem
		URI     string        `mapstructure:"uri"`
		Name    string        `mapstructure:"name"`
		Timeout time.Duration `mapstructure:"timeout"`
	}
)

const (
	DBEngineMongo = "mongodb"
	DBEngineInMem = "inmem"
)

var configKeys = []string{
	"debug", "testMode", "appName", "build", "secretKey", "rollbarToken", "apiClientKeys",
	"server.address", "server.host", "server.debugHost", "server.corsOrigins",
	"server.jwtExpirationDelta", "server.jwtRefreshExpirationDelta", "server.shutdownTimeout",
	"database.engine", "database.uri", "database.name", "database.timeout",
}

// NewConfig loads the app configuration from defaults, `config/.env.<env>` (if present) & the environment.
// Environment variables are prefixed with the upper-cased ENV, eg: DEV_SECRETKEY, PROD_DATABASE_URI.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "English POC")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("apiClientKeys", []string{})
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.corsOrigins", []string{"http://localhost:5173"})
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 30*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("database.engine", DBEngineMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "english_poc")
	v.SetDefault("database.timeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.engine", DBEngineInMem)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	// AutomaticEnv only applies to Get(); keys must be bound for Unmarshal to see them.
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	conf := new(Config)
	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		trimmedStringSliceHookFunc(),
	))); err != nil {
		log.Fatalf("config.Unmarshal(): %v", err)
	}
	conf.Env = env
	return conf
}

// trimmedStringSliceHookFunc splits comma separated env values into trimmed, non-empty items.
func trimmedStringSliceHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}
		items := make([]string, 0)
		for _, item := range strings.Split(data.(string), ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	}
}
