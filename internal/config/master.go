package config

import "os"

type AppConfig struct {
	DebugMode      bool
	JudgeConfig    *JudgeConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		JudgeConfig:    NewJudgeConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
	}
}
