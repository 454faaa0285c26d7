package config

import (
	"os"
	"strconv"
)

type RedisConfig struct {
	DB       int
	Url      string
	Password string
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "localhost:6379"
	}
	return &RedisConfig{
		DB:       db,
		Url:      url,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}
