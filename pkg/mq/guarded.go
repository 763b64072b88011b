package mq

import (
	"context"

	"github.com/xiebiao/catalog/pkg/circuitbreaker"
)

// GuardedPublisher stops calling a failing broker until the breaker lets a
// probe through. Rejected publishes return circuitbreaker.ErrOpen at once,
// so request latency does not pay for a broker outage.
type GuardedPublisher struct {
	next    Publisher
	breaker *circuitbreaker.Breaker
}

func NewGuardedPublisher(next Publisher, breaker *circuitbreaker.Breaker) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: breaker}
}

func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return g.breaker.Execute(func() error {
		return g.next.Publish(ctx, routingKey, payload)
	})
}

func (g *GuardedPublisher) Close() error {
	return g.next.Close()
}
