package config

import "time"

type Config struct {
	Web  Web
	DB   DB
	Auth Auth
	Cors Cors
	Rate Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:studio"`
	MaxIdleConns int    `conf:"default:0"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
	InMemory     bool   `conf:"default:false"`
}

type Auth struct {
	Issuer           string        `conf:"default:http://localhost:8080"`
	ClientID         string        `conf:"default:studio"`
	DiscoveryTimeout time.Duration `conf:"default:10s"`
	SessionLifetime  time.Duration `conf:"default:24h"`
}

type Cors struct {
	Origin string
}

type Rate struct {
	Burst    int           `conf:"default:20"`
	Interval time.Duration `conf:"default:100ms"`
	Expiry   time.Duration `conf:"default:30m"`
}
