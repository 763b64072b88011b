package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errDown = errors.New("broker down")

func TestClosedPassesErrorsThrough(t *testing.T) {
	b := New(DefaultConfig("mq"))

	assert.Equal(t, "mq", b.Name())
	assert.Equal(t, "closed", b.State())
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.ErrorIs(t, b.Execute(func() error { return errDown }), errDown)
	assert.Equal(t, "closed", b.State())
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "mq", FailureThreshold: 2, MaxRequests: 1, Timeout: time.Minute})

	_ = b.Execute(func() error { return errDown })
	_ = b.Execute(func() error { return errDown })
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "mq", FailureThreshold: 2, MaxRequests: 1, Timeout: time.Minute})

	_ = b.Execute(func() error { return errDown })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errDown })
	assert.Equal(t, "closed", b.State())
}

func TestHalfOpenProbeCloses(t *testing.T) {
	b := New(Config{Name: "mq", FailureThreshold: 1, MaxRequests: 1, Timeout: 20 * time.Millisecond})

	_ = b.Execute(func() error { return errDown })
	assert.Equal(t, "open", b.State())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, "half-open", b.State())

	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}
