package config

import (
	"github.com/campusnest/service-housing/internal/platform/config"
)

// ServiceConfig holds all configuration for the housing service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	MigrationsDir string
	CORSOrigins   []string
	DBConfig      config.DatabaseConfig
	JWTConfig     config.JWTConfig
	KafkaConfig   config.KafkaConfig
	RedisConfig   config.RedisConfig
}

// Load reads configuration from HOUSING_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("HOUSING")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "housing")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	return &ServiceConfig{
		Port:          config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:        config.GetAppEnv(v),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		CORSOrigins:   config.GetList(v, "CORS_ORIGINS"),
		DBConfig:      config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:     config.LoadJWTConfig(v),
		KafkaConfig:   config.LoadKafkaConfig(v),
		RedisConfig:   config.LoadRedisConfig(v),
	}, nil
}
