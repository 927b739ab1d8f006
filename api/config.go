package api

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/Monmon-1020/CampusFlow/logging"
)

type Config struct {
	StorageConfig
	ServerConfig
	SessionConfig
}

type StorageConfig struct {
	RedisAddr              string
	RedisDB                int
	TableNameAnnouncements string
}

type ServerConfig struct {
	Port int
}

type SessionConfig struct {
	// Secret keys pseudonym derivation and connect tokens. Process-wide
	// configuration, never derivable from session data.
	Secret string
	TTL    time.Duration
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			RedisAddr:              getStringOrDefault("storage.RedisAddr", "localhost:6379"),
			RedisDB:                getIntOrDefault("storage.RedisDB", 0),
			TableNameAnnouncements: viper.GetString("storage.TableNameAnnouncements"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		SessionConfig: SessionConfig{
			Secret: getString("BRAINSTORM_SECRET"),
			TTL:    time.Duration(getIntOrDefault("session.TTLMinutes", 120)) * time.Minute,
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
