package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/odolog/odolog/internal/models"
)

// VehicleRepository 车辆数据仓库
type VehicleRepository struct {
	db *DB
}

// NewVehicleRepository 创建车辆仓库
func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// trackingStart 基线日期转数据库值
func trackingStart(v *models.Vehicle) *time.Time {
	if v.TrackingStartDate == nil {
		return nil
	}
	t := v.TrackingStartDate.Time()
	return &t
}

// scanTrackingStart 数据库值转基线日期
func scanTrackingStart(t *time.Time) *models.Date {
	if t == nil {
		return nil
	}
	d := models.DateOf(*t)
	return &d
}

// Create 创建车辆
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (name, make, model, model_year, initial_odometer, tracking_start_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		v.Name,
		v.Make,
		v.Model,
		v.ModelYear,
		v.InitialOdometer,
		trackingStart(v),
		v.IsActive,
		now,
		now,
	).Scan(&v.ID)

	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}

	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

// GetByID 通过 ID 获取车辆
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `
		SELECT id, name, make, model, model_year, initial_odometer, tracking_start_date, is_active, created_at, updated_at
		FROM vehicles WHERE id = $1
	`
	v := &models.Vehicle{}
	var start *time.Time
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.Make,
		&v.Model,
		&v.ModelYear,
		&v.InitialOdometer,
		&start,
		&v.IsActive,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get vehicle by id: %w", notFound(err))
	}
	v.TrackingStartDate = scanTrackingStart(start)
	return v, nil
}

// List 获取车辆列表，includeRetired 控制是否包含已退役车辆
func (r *VehicleRepository) List(ctx context.Context, includeRetired bool) ([]*models.Vehicle, error) {
	query := `
		SELECT id, name, make, model, model_year, initial_odometer, tracking_start_date, is_active, created_at, updated_at
		FROM vehicles
	`
	if !includeRetired {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		var start *time.Time
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Make,
			&v.Model,
			&v.ModelYear,
			&v.InitialOdometer,
			&start,
			&v.IsActive,
			&v.CreatedAt,
			&v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		v.TrackingStartDate = scanTrackingStart(start)
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

// Update 更新车辆描述字段和基线
func (r *VehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	query := `
		UPDATE vehicles SET name = $1, make = $2, model = $3, model_year = $4,
			initial_odometer = $5, tracking_start_date = $6, updated_at = $7
		WHERE id = $8
	`
	v.UpdatedAt = time.Now()
	tag, err := r.db.Pool.Exec(ctx, query,
		v.Name,
		v.Make,
		v.Model,
		v.ModelYear,
		v.InitialOdometer,
		trackingStart(v),
		v.UpdatedAt,
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update vehicle: %w", ErrNotFound)
	}
	return nil
}

// SetActive 软删除/恢复车辆
func (r *VehicleRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE vehicles SET is_active = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.db.Pool.Exec(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set vehicle active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set vehicle active: %w", ErrNotFound)
	}
	return nil
}
