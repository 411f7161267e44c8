package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/odolog/odolog/internal/models"
)

// ReadingRepository 里程表读数仓库
type ReadingRepository struct {
	db *DB
}

// NewReadingRepository 创建读数仓库
func NewReadingRepository(db *DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Create 插入读数
// 唯一约束和时序触发器的拒绝会被归类为 ErrDuplicateDate / ErrSequenceViolation
func (r *ReadingRepository) Create(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO readings (vehicle_id, reading_date, odometer, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		reading.VehicleID,
		reading.Date.Time(),
		reading.Odometer,
		reading.Note,
		now,
	).Scan(&reading.ID)

	if err != nil {
		return fmt.Errorf("insert reading: %w", classifyReadingError(err))
	}

	reading.CreatedAt = now
	return nil
}

// Update 更新读数
func (r *ReadingRepository) Update(ctx context.Context, reading *models.Reading) error {
	query := `
		UPDATE readings SET reading_date = $1, odometer = $2, note = $3
		WHERE id = $4
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		reading.Date.Time(),
		reading.Odometer,
		reading.Note,
		reading.ID,
	)
	if err != nil {
		return fmt.Errorf("update reading: %w", classifyReadingError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update reading: %w", ErrNotFound)
	}
	return nil
}

// Delete 删除读数
func (r *ReadingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM readings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete reading: %w", ErrNotFound)
	}
	return nil
}

// GetByID 获取读数
func (r *ReadingRepository) GetByID(ctx context.Context, id int64) (*models.Reading, error) {
	query := `
		SELECT id, vehicle_id, reading_date, odometer, note, created_at
		FROM readings WHERE id = $1
	`
	reading := &models.Reading{}
	var date time.Time
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&reading.ID,
		&reading.VehicleID,
		&date,
		&reading.Odometer,
		&reading.Note,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get reading by id: %w", notFound(err))
	}
	reading.Date = models.DateOf(date)
	return reading, nil
}

// ListByVehicleID 获取车辆全部读数，按日期升序
// 校验和聚合都需要完整历史，不分页
func (r *ReadingRepository) ListByVehicleID(ctx context.Context, vehicleID int64) ([]models.Reading, error) {
	query := `
		SELECT id, vehicle_id, reading_date, odometer, note, created_at
		FROM readings WHERE vehicle_id = $1 ORDER BY reading_date
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		var date time.Time
		err := rows.Scan(
			&reading.ID,
			&reading.VehicleID,
			&date,
			&reading.Odometer,
			&reading.Note,
			&reading.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		reading.Date = models.DateOf(date)
		readings = append(readings, reading)
	}

	return readings, nil
}
