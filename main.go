// @title CampusFlow Brainstorm API
// @version 1.0
// @description Real-time collaborative brainstorm sessions for campus streams

package main

import (
	_ "github.com/Monmon-1020/CampusFlow/docs"

	"github.com/Monmon-1020/CampusFlow/api"
	"github.com/Monmon-1020/CampusFlow/logging"
	"github.com/spf13/viper"
)

func main() {
	logging.BoostrapLogger()

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	// Read config
	config := api.ReadConfig()

	// Start the service
	service := api.NewServer(config)
	service.Start()
}
