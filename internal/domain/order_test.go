package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderAccepted, true},
		{OrderPending, OrderRejected, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderCompleted, false},
		{OrderPending, OrderInProgress, false},
		{OrderAccepted, OrderInProgress, true},
		{OrderAccepted, OrderCompleted, true},
		{OrderAccepted, OrderCancelled, true},
		{OrderAccepted, OrderRejected, false},
		{OrderInProgress, OrderCompleted, true},
		{OrderInProgress, OrderCancelled, true},
		{OrderInProgress, OrderAccepted, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderRejected, OrderPending, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderAccepted.IsTerminal())
	assert.False(t, OrderInProgress.IsTerminal())
	assert.True(t, OrderCompleted.IsTerminal())
	assert.True(t, OrderRejected.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
}

func TestOrder_Participants(t *testing.T) {
	o := &Order{CustomerID: 1, MasterID: 2}

	assert.True(t, o.IsParticipant(1))
	assert.True(t, o.IsParticipant(2))
	assert.False(t, o.IsParticipant(3))

	assert.Equal(t, int64(2), o.OtherParticipant(1))
	assert.Equal(t, int64(1), o.OtherParticipant(2))
}
