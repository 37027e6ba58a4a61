package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	PostgresURL      string `envconfig:"POSTGRES_URL" required:"true"`
	RedisAddr        string `envconfig:"REDIS_ADDR" required:"true"`
	NotificationsURL string `envconfig:"NOTIFICATIONS_URL" default:"http://localhost:8090"`
	JaegerEndpoint   string `envconfig:"JAEGER_ENDPOINT"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
