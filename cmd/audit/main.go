package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/database"
	"github.com/enf-hma/escala/backend/internal/events"
	"github.com/enf-hma/escala/backend/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
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
		logger.Error("não foi possível carregar a configuração", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * armazenamento
	 **********************************************/
	store, closeStore, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("não foi possível abrir o armazenamento", slog.String("error", err.Error()))
		return
	}
	defer closeStore()

	svc := service.New(store, service.WithLocation(cfg.Location()), service.WithLogger(logger))

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("não foi possível conectar ao rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("não foi possível abrir o canal", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := events.DeclareQueue(ch, cfg.RabbitMQ.AuditQueue)
	if err != nil {
		logger.Error("não foi possível declarar a fila", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // nome do consumidor gerado pelo rabbitmq
		false, // ack manual
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("não foi possível consumir a fila", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("canal de mensagens fechado")
					sigChan <- syscall.SIGTERM
					return
				}

				outcome, err := events.Handle(ctx, msg.Body, svc.RecordEvent)
				if err != nil {
					logger.Error("falha ao gravar evento", slog.String("type", msg.Type), slog.String("error", err.Error()))
				}
				if err := events.Settle(msg, outcome); err != nil {
					logger.Error("falha ao confirmar mensagem", slog.String("error", err.Error()))
				}
			}
		}
	}()

	logger.Info("aguardando eventos... (CTRL+C para sair)", "queue", q.Name)
	<-sigChan

	slog.Info("encerrando o worker de auditoria...")
	cancel()
	wg.Wait()
	slog.Info("worker de auditoria encerrado")
}
