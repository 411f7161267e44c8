package service

import (
	"context"
	"errors"

	"github.com/odolog/odolog/internal/models"
)

// 存储接口，由 repository 包的具体实现满足
// 抽出接口是为了让 service 层可以脱离数据库测试

// VehicleStore 车辆存储
type VehicleStore interface {
	Create(ctx context.Context, v *models.Vehicle) error
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	List(ctx context.Context, includeRetired bool) ([]*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// ReadingStore 读数存储
type ReadingStore interface {
	Create(ctx context.Context, r *models.Reading) error
	Update(ctx context.Context, r *models.Reading) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Reading, error)
	ListByVehicleID(ctx context.Context, vehicleID int64) ([]models.Reading, error)
}

// service 层业务错误
var (
	ErrBaselinePair      = errors.New("initial odometer and tracking start date must be set together")
	ErrVehicleRetired    = errors.New("vehicle is retired")
	ErrLifecycleConflict = errors.New("invalid lifecycle transition")
)
