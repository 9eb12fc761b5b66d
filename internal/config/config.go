package config

import (
	"errors"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreModePostgres = "postgres"
	StoreModeFile     = "file"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Timezone    string `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		TrustProxy      bool   `env:"TRUST_PROXY" envDefault:"false"` // só com proxy reverso na frente
	} `envPrefix:"SERVER_"`
	Store struct {
		Mode     string `env:"MODE" envDefault:"postgres"`
		FilePath string `env:"FILE_PATH" envDefault:"./data/escala.json"`
	} `envPrefix:"STORE_"`
	Database struct {
		DSN                string `env:"DSN"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		CPF      string `env:"CPF,required"`
		Password string `env:"PASSWORD,required"`
		Name     string `env:"NAME" envDefault:"Administrador"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"43200"` // 12 horas, em segundos
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		Nurse struct {
			Password string `env:"PASSWORD" envDefault:"enfermagem"`
		} `envPrefix:"NURSE_"`
	} `envPrefix:"SEED_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		AuditQueue     string `env:"AUDIT_QUEUE" envDefault:"escala_audit"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	} `envPrefix:"CORS_"`
	RateLimit struct {
		Login struct {
			RequestsPerSecond float64 `env:"RPS" envDefault:"1"`
			Burst             int     `env:"BURST" envDefault:"5"`
		} `envPrefix:"LOGIN_"`
	} `envPrefix:"RATE_LIMIT_"`
}

func LoadConfig() (*Config, error) {
	// .env é opcional, em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// só o primeiro erro, para o log ficar legível
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Mode {
	case StoreModePostgres:
		if c.Database.DSN == "" {
			return errors.New("DATABASE_DSN é obrigatório quando STORE_MODE=postgres")
		}
	case StoreModeFile:
		if c.Store.FilePath == "" {
			return errors.New("STORE_FILE_PATH é obrigatório quando STORE_MODE=file")
		}
	default:
		return errors.New("STORE_MODE deve ser postgres ou file")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.New("TIMEZONE inválido")
	}

	return nil
}

// Location devolve o fuso usado para decidir o que é "hoje".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
