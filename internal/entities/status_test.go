package entities_test

import (
	"testing"

	"github.com/bookhive/order-service/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[entities.Status][]entities.Status{
		entities.StatusNew:       {entities.StatusInProcess, entities.StatusError},
		entities.StatusInProcess: {entities.StatusDelivered, entities.StatusCancelled, entities.StatusError},
	}

	all := []entities.Status{
		entities.StatusNew,
		entities.StatusInProcess,
		entities.StatusDelivered,
		entities.StatusCancelled,
		entities.StatusError,
	}

	// Check the full source x target grid so no transition sneaks in.
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, entities.StatusNew.IsTerminal())
	assert.False(t, entities.StatusInProcess.IsTerminal())
	assert.True(t, entities.StatusDelivered.IsTerminal())
	assert.True(t, entities.StatusCancelled.IsTerminal())
	assert.True(t, entities.StatusError.IsTerminal())
}

func TestRoutingKeyForStatus(t *testing.T) {
	testCases := []struct {
		status entities.Status
		key    string
		ok     bool
	}{
		{entities.StatusDelivered, entities.RoutingKeyDelivered, true},
		{entities.StatusCancelled, entities.RoutingKeyCancelled, true},
		{entities.StatusError, entities.RoutingKeyError, true},
		{entities.StatusInProcess, "", false},
		{entities.StatusNew, "", false},
	}

	for _, tc := range testCases {
		key, ok := entities.RoutingKeyForStatus(tc.status)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.key, key)
	}
}
