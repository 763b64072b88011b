package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderStartsWaitingPayment(t *testing.T) {
	o := NewOrder(7, []Item{{ProductID: 1, Quantity: 2, Price: 10.5}, {ProductID: 2, Quantity: 1, Price: 4}})

	assert.Equal(t, StatusWaitingPayment, o.Status)
	assert.Equal(t, 25.0, o.Total())
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
	assert.False(t, o.Moment.IsZero())
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusWaitingPayment, StatusPaid, true},
		{StatusWaitingPayment, StatusCanceled, true},
		{StatusWaitingPayment, StatusShipped, false},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCanceled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCanceled, false},
		{StatusDelivered, StatusCanceled, false},
		{StatusCanceled, StatusPaid, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			o := &Order{Status: tc.from}
			err := o.TransitionTo(tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, o.Status)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, tc.from, o.Status)
		})
	}
}

func TestLifecycle(t *testing.T) {
	o := NewOrder(1, nil)
	require.NoError(t, o.Pay())
	require.NoError(t, o.Ship())
	require.NoError(t, o.Deliver())
	assert.Error(t, o.Cancel())
}
