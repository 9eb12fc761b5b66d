package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	key     string
	msg     amqp.Publishing
	hasDead bool
	err     error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, c.hasDead = ctx.Deadline()
	c.key = key
	c.msg = msg
	return c.err
}

func TestPublisherSendsJSONToQueue(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "escala_audit", 5*time.Second)

	event := domain.Event{
		Type:       domain.EventSwapApproved,
		ActorID:    7,
		Payload:    json.RawMessage(`{"id":3}`),
		OccurredAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "escala_audit", ch.key)
	assert.True(t, ch.hasDead)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, domain.EventSwapApproved, ch.msg.Type)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, event.ActorID, decoded.ActorID)
	assert.JSONEq(t, `{"id":3}`, string(decoded.Payload))
}

func TestPublisherReturnsChannelError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := NewPublisher(ch, "escala_audit", time.Second)

	err := p.Publish(context.Background(), domain.Event{Type: domain.EventSwapRequested})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestHandleOutcomes(t *testing.T) {
	ctx := context.Background()
	ok := func(context.Context, domain.Event) error { return nil }

	body, err := json.Marshal(domain.Event{Type: domain.EventRosterAssigned, ActorID: 1})
	require.NoError(t, err)

	t.Run("ack", func(t *testing.T) {
		var got domain.Event
		outcome, err := Handle(ctx, body, func(_ context.Context, e domain.Event) error {
			got = e
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, Ack, outcome)
		assert.Equal(t, domain.EventRosterAssigned, got.Type)
	})

	t.Run("json inválido", func(t *testing.T) {
		outcome, err := Handle(ctx, []byte("{"), ok)
		assert.Error(t, err)
		assert.Equal(t, Discard, outcome)
	})

	t.Run("sem tipo", func(t *testing.T) {
		outcome, err := Handle(ctx, []byte(`{"actorID":1}`), ok)
		assert.Error(t, err)
		assert.Equal(t, Discard, outcome)
	})

	t.Run("falha ao gravar", func(t *testing.T) {
		outcome, err := Handle(ctx, body, func(context.Context, domain.Event) error {
			return domain.NewStoreError("erro ao acessar o armazenamento", errors.New("conexão recusada"))
		})
		assert.Error(t, err)
		assert.Equal(t, Requeue, outcome)
	})
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestSettle(t *testing.T) {
	for _, tc := range []struct {
		outcome Outcome
		acked   bool
		requeue bool
	}{
		{Ack, true, false},
		{Requeue, false, true},
		{Discard, false, false},
	} {
		ack := &fakeAcknowledger{}
		require.NoError(t, Settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}, tc.outcome))
		assert.Equal(t, tc.acked, ack.acked)
		assert.Equal(t, !tc.acked, ack.nacked)
		assert.Equal(t, tc.requeue, ack.requeue)
	}
}
