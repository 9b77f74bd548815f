package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("trace", false)

	viper.SetDefault("db_path", "suggestion_bot.db")
	viper.SetDefault("state_dir", ".predlozka")
	viper.SetDefault("poll_timeout", 30*time.Second)
	viper.SetDefault("max_concurrency", 8)

	viper.SetDefault("server.bind", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
}
