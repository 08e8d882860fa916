// Package config предоставляет структуры и функцию для парсинга и загрузки конфига клиента.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Бэкенды хранения токена.
const (
	TokenBackendFile  = "file"
	TokenBackendRedis = "redis"
)

// Config общая структура для хранения настроек клиента.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"development"`
	APIClient       `yaml:"api_client"`
	TokenStorage    `yaml:"token_storage"`
	RedisConnection `yaml:"redis_connection"`
	RateLimit       `yaml:"rate_limit"`
}

// APIClient структура для настройки HTTP-транспорта.
type APIClient struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// TokenStorage структура для настройки долговременного хранилища токена.
type TokenStorage struct {
	Backend   string `yaml:"backend" env-default:"file"` // file или redis
	FilePath  string `yaml:"file_path"`                  // Путь к файлу токена (для backend: file)
	Namespace string `yaml:"namespace" env-default:"realty"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RateLimit структура для клиентского ограничения частоты запросов.
// Нулевой RPS отключает ограничение.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst" env-default:"1"`
}

// MustLoad загружает конфиг по пути из переменной окружения CONFIG_PATH.
// При любой ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"APIClient:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"TokenStorage:\n"+
			"  Backend: %s\n"+
			"  FilePath: %s\n"+
			"  Namespace: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n",
		c.Env,
		c.BaseURL,
		c.Timeout,
		c.Backend,
		c.FilePath,
		c.TokenStorage.Namespace,
		c.AddressRedis,
		c.User,
		c.DB,
		c.RPS,
		c.Burst,
	)
}
