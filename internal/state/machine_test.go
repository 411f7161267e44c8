package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineRetireAndReactivate(t *testing.T) {
	var transitions [][2]string
	m := NewMachine(1, StateActive, func(vehicleID int64, from, to string) {
		transitions = append(transitions, [2]string{from, to})
	})

	assert.True(t, m.IsActive())
	assert.True(t, m.CanTransition(EventRetire))
	assert.False(t, m.CanTransition(EventReactivate))

	require.NoError(t, m.Trigger(EventRetire))
	assert.Equal(t, StateRetired, m.CurrentState())
	assert.False(t, m.IsActive())

	// Retiring twice is rejected
	assert.Error(t, m.Trigger(EventRetire))

	require.NoError(t, m.Trigger(EventReactivate))
	assert.Equal(t, StateActive, m.CurrentState())

	assert.Equal(t, [][2]string{
		{StateActive, StateRetired},
		{StateRetired, StateActive},
	}, transitions)
}

func TestMachineDefaultsToActive(t *testing.T) {
	m := NewMachine(1, "", nil)
	assert.Equal(t, StateActive, m.CurrentState())
}

func TestMachineStatusIsCopy(t *testing.T) {
	m := NewMachine(7, StateActive, nil)

	status := m.Status()
	assert.Equal(t, int64(7), status.VehicleID)
	assert.Equal(t, StateActive, status.CurrentState)

	status.CurrentState = StateRetired
	assert.Equal(t, StateActive, m.CurrentState())
}

func TestManager(t *testing.T) {
	mgr := NewManager(nil)

	m1 := mgr.GetOrCreate(1, StateActive)
	m2 := mgr.GetOrCreate(2, StateRetired)

	// Same ID returns the existing machine
	assert.Same(t, m1, mgr.GetOrCreate(1, StateRetired))
	assert.Equal(t, StateActive, m1.CurrentState())

	got, ok := mgr.Get(2)
	require.True(t, ok)
	assert.Same(t, m2, got)

	_, ok = mgr.Get(99)
	assert.False(t, ok)

	statuses := mgr.GetAllStatuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, StateRetired, statuses[2].CurrentState)
}
