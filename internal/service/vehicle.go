package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/odolog/odolog/internal/models"
	"github.com/odolog/odolog/internal/state"
	"github.com/odolog/odolog/pkg/ws"
)

// VehicleService 车辆服务
// 负责车辆的创建、更新和生命周期 (退役/恢复)，
// 生命周期转换由状态机约束，结果落库并广播
type VehicleService struct {
	logger    *zap.Logger
	vehicles  VehicleStore
	lifecycle *state.Manager
	wsHub     *ws.Hub
}

// NewVehicleService 创建车辆服务
func NewVehicleService(logger *zap.Logger, vehicles VehicleStore, wsHub *ws.Hub) *VehicleService {
	svc := &VehicleService{
		logger:   logger,
		vehicles: vehicles,
		wsHub:    wsHub,
	}

	// 创建状态管理器
	svc.lifecycle = state.NewManager(svc.onStateChange)

	return svc
}

// onStateChange 状态机转换回调
func (s *VehicleService) onStateChange(vehicleID int64, from, to string) {
	s.logger.Info("Vehicle lifecycle changed",
		zap.Int64("vehicle_id", vehicleID),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// Start 加载已有车辆并初始化状态机
func (s *VehicleService) Start(ctx context.Context) error {
	vehicles, err := s.vehicles.List(ctx, true)
	if err != nil {
		return fmt.Errorf("load vehicles: %w", err)
	}

	for _, v := range vehicles {
		s.lifecycle.GetOrCreate(v.ID, lifecycleState(v))
	}

	s.logger.Info("Vehicle service started", zap.Int("vehicles", len(vehicles)))
	return nil
}

// lifecycleState 数据库标志位转状态机初始状态
func lifecycleState(v *models.Vehicle) string {
	if v.IsActive {
		return state.StateActive
	}
	return state.StateRetired
}

// checkBaseline 基线两个字段必须同时出现或同时缺失
func checkBaseline(v *models.Vehicle) error {
	if (v.InitialOdometer == nil) != (v.TrackingStartDate == nil) {
		return ErrBaselinePair
	}
	if v.InitialOdometer != nil && *v.InitialOdometer < 0 {
		return fmt.Errorf("initial odometer must be non-negative")
	}
	return nil
}

// Create 创建车辆
func (s *VehicleService) Create(ctx context.Context, v *models.Vehicle) error {
	if err := checkBaseline(v); err != nil {
		return err
	}

	v.IsActive = true
	if err := s.vehicles.Create(ctx, v); err != nil {
		return err
	}

	s.lifecycle.GetOrCreate(v.ID, state.StateActive)
	s.wsHub.BroadcastVehicleUpdate(v)

	s.logger.Info("Vehicle created", zap.Int64("vehicle_id", v.ID), zap.String("name", v.Name))
	return nil
}

// Update 更新车辆描述字段和基线
func (s *VehicleService) Update(ctx context.Context, v *models.Vehicle) error {
	if err := checkBaseline(v); err != nil {
		return err
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		return err
	}

	s.wsHub.BroadcastVehicleUpdate(v)
	return nil
}

// Retire 退役车辆 (软删除，历史读数和统计保留)
func (s *VehicleService) Retire(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.transition(ctx, id, state.EventRetire, false)
}

// Reactivate 恢复已退役车辆
func (s *VehicleService) Reactivate(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.transition(ctx, id, state.EventReactivate, true)
}

// transition 触发生命周期事件并持久化
func (s *VehicleService) transition(ctx context.Context, id int64, event string, active bool) (*models.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := s.lifecycle.GetOrCreate(id, lifecycleState(v))
	if err := machine.Trigger(event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLifecycleConflict, err)
	}

	if err := s.vehicles.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	v.IsActive = active

	s.wsHub.BroadcastVehicleUpdate(v)
	return v, nil
}

// Get 获取车辆
func (s *VehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

// List 获取车辆列表
func (s *VehicleService) List(ctx context.Context, includeRetired bool) ([]*models.Vehicle, error) {
	return s.vehicles.List(ctx, includeRetired)
}

// TrackingStatus 获取车辆生命周期状态
func (s *VehicleService) TrackingStatus(id int64) (*state.TrackingStatus, bool) {
	machine, ok := s.lifecycle.Get(id)
	if !ok {
		return nil, false
	}
	return machine.Status(), true
}
