package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/catalog/pkg/circuitbreaker"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type orderCreated struct {
	OrderID  uint `json:"order_id"`
	ClientID uint `json:"client_id"`
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &AMQPPublisher{channel: ch, exchange: "catalog.events", now: func() time.Time { return at }}

	require.NoError(t, p.Publish(context.Background(), "order.created", orderCreated{OrderID: 9, ClientID: 2}))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "catalog.events", sent.exchange)
	assert.Equal(t, "order.created", sent.key)
	assert.Equal(t, uint8(amqp.Persistent), sent.msg.DeliveryMode)
	assert.Equal(t, "application/json", sent.msg.ContentType)

	var env Envelope
	require.NoError(t, json.Unmarshal(sent.msg.Body, &env))
	assert.Equal(t, sent.msg.MessageId, env.ID)
	assert.Equal(t, "order.created", env.Type)
	assert.True(t, at.Equal(env.OccurredAt))
	assert.JSONEq(t, `{"order_id":9,"client_id":2}`, string(env.Payload))
}

func TestPublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{channel: ch, exchange: "catalog.events", now: time.Now}

	err := p.Publish(context.Background(), "order.created", orderCreated{OrderID: 1})
	assert.ErrorContains(t, err, "channel closed")
}

func TestPublishUnmarshalablePayload(t *testing.T) {
	p := &AMQPPublisher{channel: &fakeChannel{}, exchange: "x", now: time.Now}
	assert.Error(t, p.Publish(context.Background(), "bad", make(chan int)))
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "order.created", nil))
	assert.NoError(t, p.Close())
}

func TestGuardedPublisherFailsFast(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset")}
	inner := &AMQPPublisher{channel: ch, exchange: "catalog.events", now: time.Now}
	p := NewGuardedPublisher(inner, circuitbreaker.New(circuitbreaker.Config{
		Name:             "mq",
		FailureThreshold: 2,
		MaxRequests:      1,
		Timeout:          time.Minute,
	}))

	assert.ErrorContains(t, p.Publish(context.Background(), "order.created", orderCreated{OrderID: 1}), "connection reset")
	assert.ErrorContains(t, p.Publish(context.Background(), "order.created", orderCreated{OrderID: 2}), "connection reset")

	ch.err = nil
	assert.ErrorIs(t, p.Publish(context.Background(), "order.created", orderCreated{OrderID: 3}), circuitbreaker.ErrOpen)
	assert.Empty(t, ch.sent)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
