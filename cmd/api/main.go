package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/database"
	"github.com/enf-hma/escala/backend/internal/events"
	"github.com/enf-hma/escala/backend/internal/handler"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/session"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuração
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("não foi possível carregar a configuração", "error", err)
		return
	}

	/**********************************************
	 * armazenamento
	 **********************************************/
	store, closeStore, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("não foi possível abrir o armazenamento", "error", err)
		return
	}
	defer closeStore()

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("não foi possível conectar ao rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("não foi possível abrir o canal", "error", err)
		return
	}
	defer ch.Close()

	if _, err := events.DeclareQueue(ch, cfg.RabbitMQ.AuditQueue); err != nil {
		logger.Error("não foi possível declarar a fila", "error", err)
		return
	}

	publisher := events.NewPublisher(ch, cfg.RabbitMQ.AuditQueue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * serviço e administrador inicial
	 **********************************************/
	svc := service.New(store,
		service.WithPublisher(publisher),
		service.WithLocation(cfg.Location()),
		service.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := svc.EnsureInitialAdmin(ctx, cfg.InitialAdmin.Name, cfg.InitialAdmin.CPF, cfg.InitialAdmin.Password); err != nil {
		logger.Error("não foi possível criar o administrador inicial", "error", err)
		return
	}

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	redisTimeout := time.Duration(cfg.Redis.OperationTimeout) * time.Second
	pingCtx, pingCancel := context.WithTimeout(context.Background(), redisTimeout)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("não foi possível conectar ao redis", "error", err)
		return
	}

	sessions := session.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.Expiration)*time.Second,
		session.NewRedisRevoker(rdb, redisTimeout),
	)

	/**********************************************
	 * handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, svc, sessions)
	if err != nil {
		logger.Error("não foi possível criar o handler", "error", err)
		return
	}
	h.RegisterRoutes()

	// o front roda em outra origem e manda o cookie de sessão
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(h.Mux)

	/**********************************************
	 * servidor HTTP
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      corsHandler,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("iniciando o servidor...", "port", cfg.Server.Port, "store", cfg.Store.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("não foi possível iniciar o servidor", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("encerrando o servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("falha ao encerrar o servidor", slog.String("error", err.Error()))
	}
	logger.Info("servidor encerrado")
}
