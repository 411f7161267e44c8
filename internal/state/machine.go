package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// 车辆生命周期状态常量
// 车辆不做物理删除：退役后保留全部历史读数，可以重新启用
const (
	StateActive  = "active"
	StateRetired = "retired"
)

// 事件常量
const (
	EventRetire     = "retire"
	EventReactivate = "reactivate"
)

// TrackingStatus 车辆记录状态
type TrackingStatus struct {
	VehicleID    int64     `json:"vehicle_id"`
	CurrentState string    `json:"state"`
	Since        time.Time `json:"since"`
}

// Machine 车辆生命周期状态机
type Machine struct {
	mu            sync.RWMutex
	vehicleID     int64
	fsm           *fsm.FSM
	status        *TrackingStatus
	onStateChange func(vehicleID int64, from, to string)
}

// NewMachine 创建状态机
func NewMachine(vehicleID int64, initialState string, onStateChange func(vehicleID int64, from, to string)) *Machine {
	if initialState == "" {
		initialState = StateActive
	}

	m := &Machine{
		vehicleID:     vehicleID,
		onStateChange: onStateChange,
		status: &TrackingStatus{
			VehicleID:    vehicleID,
			CurrentState: initialState,
			Since:        time.Now(),
		},
	}

	m.fsm = fsm.NewFSM(
		initialState,
		fsm.Events{
			{Name: EventRetire, Src: []string{StateActive}, Dst: StateRetired},
			{Name: EventReactivate, Src: []string{StateRetired}, Dst: StateActive},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(m.vehicleID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState 获取当前状态
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Status 获取完整状态
func (m *Machine) Status() *TrackingStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// 返回副本
	statusCopy := *m.status
	statusCopy.CurrentState = m.fsm.Current()
	return &statusCopy
}

// IsActive 车辆是否处于记录中
func (m *Machine) IsActive() bool {
	return m.CurrentState() == StateActive
}

// Trigger 触发事件
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	m.status.CurrentState = m.fsm.Current()
	m.status.Since = time.Now()
	return nil
}

// CanTransition 检查是否可以转换
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Manager 状态机管理器
type Manager struct {
	mu       sync.RWMutex
	machines map[int64]*Machine
	onChange func(vehicleID int64, from, to string)
}

// NewManager 创建管理器
func NewManager(onChange func(vehicleID int64, from, to string)) *Manager {
	return &Manager{
		machines: make(map[int64]*Machine),
		onChange: onChange,
	}
}

// GetOrCreate 获取或创建状态机
func (m *Manager) GetOrCreate(vehicleID int64, initialState string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[vehicleID]; ok {
		return machine
	}

	machine := NewMachine(vehicleID, initialState, m.onChange)
	m.machines[vehicleID] = machine
	return machine
}

// Get 获取状态机
func (m *Manager) Get(vehicleID int64) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[vehicleID]
	return machine, ok
}

// GetAllStatuses 获取所有车辆记录状态
func (m *Manager) GetAllStatuses() map[int64]*TrackingStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make(map[int64]*TrackingStatus)
	for vehicleID, machine := range m.machines {
		statuses[vehicleID] = machine.Status()
	}
	return statuses
}
