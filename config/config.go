package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	RabbitMQ RabbitMQConfig `json:"rabbitmq"`
	JWT      JWTConfig      `json:"jwt"`
}

type ServerConfig struct {
	Port string `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

type RabbitMQConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type JWTConfig struct {
	Secret string `json:"secret"`
}

// LoadConfig reads the JSON config file, then lets environment variables
// override individual values for deployment.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	applyEnv(&config)

	return &config, nil
}

func applyEnv(c *Config) {
	override(&c.Server.Port, "SERVER_PORT")
	override(&c.Database.Host, "DB_HOST")
	override(&c.Database.Port, "DB_PORT")
	override(&c.Database.User, "DB_USER")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Database.DBName, "DB_NAME")
	override(&c.RabbitMQ.Host, "RABBITMQ_HOST")
	override(&c.RabbitMQ.Port, "RABBITMQ_PORT")
	override(&c.RabbitMQ.User, "RABBITMQ_USER")
	override(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	override(&c.JWT.Secret, "JWT_SECRET")
}

func override(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
