package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/odolog/odolog/internal/mileage"
	"github.com/odolog/odolog/internal/models"
	"github.com/odolog/odolog/internal/repository"
	"github.com/odolog/odolog/pkg/ws"
)

// ReadingService 读数服务
// 提交流程：基于当前快照运行纯函数校验，再写库。
// 数据库触发器会原子地重新校验同一不变量，并发提交穿过快照校验时
// 触发器的拒绝按普通校验失败返回，由用户修正后重试，
// 自动重试没有意义——同样的过期值会再次被拒
type ReadingService struct {
	logger   *zap.Logger
	readings ReadingStore
	vehicles VehicleStore
	wsHub    *ws.Hub
}

// NewReadingService 创建读数服务
func NewReadingService(logger *zap.Logger, readings ReadingStore, vehicles VehicleStore, wsHub *ws.Hub) *ReadingService {
	return &ReadingService{
		logger:   logger,
		readings: readings,
		vehicles: vehicles,
		wsHub:    wsHub,
	}
}

// Validate 只做校验，不写入
// 前端在日期变化时调用，拿到 min/max 边界渲染"有效范围"提示
func (s *ReadingService) Validate(ctx context.Context, vehicleID int64, date models.Date, value int64, excludeID int64) (mileage.Result, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return mileage.Result{}, err
	}

	history, err := s.readings.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return mileage.Result{}, err
	}

	return mileage.Validate(history, vehicleID, date, value, excludeID), nil
}

// Submit 提交新读数
// 返回的 Result 表达校验结论；error 只表示基础设施故障
func (s *ReadingService) Submit(ctx context.Context, reading *models.Reading) (mileage.Result, error) {
	v, err := s.vehicles.GetByID(ctx, reading.VehicleID)
	if err != nil {
		return mileage.Result{}, err
	}
	if !v.IsActive {
		return mileage.Result{}, ErrVehicleRetired
	}

	history, err := s.readings.ListByVehicleID(ctx, reading.VehicleID)
	if err != nil {
		return mileage.Result{}, err
	}

	result := mileage.Validate(history, reading.VehicleID, reading.Date, reading.Odometer, 0)
	if !result.Valid {
		return result, nil
	}

	if err := s.readings.Create(ctx, reading); err != nil {
		return s.mapWriteError(ctx, reading, 0, err)
	}

	s.wsHub.BroadcastReadingEvent("created", reading.VehicleID, reading)
	s.logger.Info("Reading submitted",
		zap.Int64("vehicle_id", reading.VehicleID),
		zap.String("date", reading.Date.String()),
		zap.Int64("odometer", reading.Odometer),
	)
	return result, nil
}

// Update 编辑已有读数
// 校验时排除读数自身，避免和旧值冲突；不允许移到其他车辆
func (s *ReadingService) Update(ctx context.Context, id int64, date models.Date, odometer int64, note string) (*models.Reading, mileage.Result, error) {
	existing, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return nil, mileage.Result{}, err
	}

	v, err := s.vehicles.GetByID(ctx, existing.VehicleID)
	if err != nil {
		return nil, mileage.Result{}, err
	}
	if !v.IsActive {
		return nil, mileage.Result{}, ErrVehicleRetired
	}

	history, err := s.readings.ListByVehicleID(ctx, existing.VehicleID)
	if err != nil {
		return nil, mileage.Result{}, err
	}

	result := mileage.Validate(history, existing.VehicleID, date, odometer, id)
	if !result.Valid {
		return nil, result, nil
	}

	existing.Date = date
	existing.Odometer = odometer
	existing.Note = note
	if err := s.readings.Update(ctx, existing); err != nil {
		res, mapErr := s.mapWriteError(ctx, existing, id, err)
		return nil, res, mapErr
	}

	s.wsHub.BroadcastReadingEvent("updated", existing.VehicleID, existing)
	return existing, result, nil
}

// Delete 删除读数
func (s *ReadingService) Delete(ctx context.Context, id int64) error {
	existing, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.readings.Delete(ctx, id); err != nil {
		return err
	}

	s.wsHub.BroadcastReadingEvent("deleted", existing.VehicleID, existing)
	return nil
}

// mapWriteError 把数据库约束拒绝映射为校验失败
// 说明发生了写写竞争：另一个提交在快照校验之后先落库。
// 基于最新历史重新校验，给用户准确的边界提示
func (s *ReadingService) mapWriteError(ctx context.Context, reading *models.Reading, excludeID int64, cause error) (mileage.Result, error) {
	if !errors.Is(cause, repository.ErrDuplicateDate) && !errors.Is(cause, repository.ErrSequenceViolation) {
		return mileage.Result{}, cause
	}

	s.logger.Warn("Reading rejected by database constraint",
		zap.Int64("vehicle_id", reading.VehicleID),
		zap.String("date", reading.Date.String()),
		zap.Error(cause),
	)

	history, err := s.readings.ListByVehicleID(ctx, reading.VehicleID)
	if err != nil {
		return mileage.Result{}, err
	}

	result := mileage.Validate(history, reading.VehicleID, reading.Date, reading.Odometer, excludeID)
	if result.Valid {
		// 刷新后的快照已看不到冲突 (如竞争方又被删除)，退回通用拒绝
		result = mileage.Result{Valid: false, Error: "reading conflicts with a concurrent submission, please retry"}
	}
	return result, nil
}

// History 获取车辆全部读数，日期升序
func (s *ReadingService) History(ctx context.Context, vehicleID int64) ([]models.Reading, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.readings.ListByVehicleID(ctx, vehicleID)
}

// MonthlyChart 获取补齐间隙后的月度里程序列 (窗口取 6 或 12 个月)
func (s *ReadingService) MonthlyChart(ctx context.Context, vehicleID int64, window int) ([]models.MonthlyPeriod, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	history, err := s.readings.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	periods := mileage.MonthlyMileage(history, vehicleID, v.Baseline())
	return mileage.FillGaps(periods, window, models.Today()), nil
}

// Summary 获取车辆里程概览
func (s *ReadingService) Summary(ctx context.Context, vehicleID int64) (models.MileageSummary, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return models.MileageSummary{}, err
	}

	history, err := s.readings.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return models.MileageSummary{}, err
	}

	return mileage.Summarize(history, vehicleID, v.Baseline(), models.Today()), nil
}
