// Package events leva os eventos de domínio até a fila de auditoria no RabbitMQ
// e devolve o que o worker precisa para consumi-los.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel é a parte do *amqp.Channel usada para publicar.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{ch: ch, queue: queue, timeout: timeout}
}

// DeclareQueue declara a fila durável de auditoria. A API e o worker chamam com os mesmos parâmetros.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durável
		false, // não apaga sem consumidores
		false,
		false,
		nil,
	)
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
}

// Outcome é o destino de uma mensagem depois de processada.
type Outcome int

const (
	Ack Outcome = iota
	// Discard: mensagem ilegível, não adianta reenfileirar.
	Discard
	// Requeue: falha temporária ao gravar.
	Requeue
)

// Handle decodifica a mensagem e entrega para record.
func Handle(ctx context.Context, body []byte, record func(context.Context, domain.Event) error) (Outcome, error) {
	var event domain.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Discard, err
	}
	if event.Type == "" {
		return Discard, domain.NewValidationError("evento sem tipo")
	}

	if err := record(ctx, event); err != nil {
		if domain.IsKind(err, domain.KindValidation) {
			return Discard, err
		}
		return Requeue, err
	}
	return Ack, nil
}

// Settle confirma ou rejeita a entrega conforme o resultado.
func Settle(d amqp.Delivery, outcome Outcome) error {
	switch outcome {
	case Ack:
		return d.Ack(false)
	case Requeue:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}
