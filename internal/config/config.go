package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type (
	Container struct {
		App   *App
		Token *Token
		DB    *DB
		HTTP  *HTTP
		Redis *Redis
		AWS   *AWS
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret   string
		Issuer   string
		Duration string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
	}

	AWS struct {
		Region      string
		BucketName  string
		LogsTable   string
		StorageHost string
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Name: os.Getenv("APP_NAME"),
		Env:  os.Getenv("APP_ENV"),
	}

	token := &Token{
		Secret:   os.Getenv("TOKEN_SECRET"),
		Issuer:   os.Getenv("TOKEN_ISSUER"),
		Duration: os.Getenv("TOKEN_DURATION"),
	}

	db := &DB{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}

	http := &HTTP{
		Port:           os.Getenv("HTTP_PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            os.Getenv("APP_ENV"),
	}

	redis := &Redis{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	aws := &AWS{
		Region:      os.Getenv("AWS_REGION"),
		BucketName:  os.Getenv("AWS_BUCKET_NAME"),
		LogsTable:   os.Getenv("AWS_LOGS_TABLE"),
		StorageHost: os.Getenv("AWS_STORAGE_HOST"),
	}

	return &Container{
		App:   app,
		Token: token,
		DB:    db,
		HTTP:  http,
		Redis: redis,
		AWS:   aws,
	}, nil
}

// DurationOrDefault parses TOKEN_DURATION, falling back to 12 hours when the
// variable is unset or malformed.
func (t *Token) DurationOrDefault() time.Duration {
	d, err := time.ParseDuration(t.Duration)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}
