package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateVehicles,
		migrationCreateReadings,
		migrationCreateSequenceTrigger,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateVehicles = `
CREATE TABLE IF NOT EXISTS vehicles (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    make VARCHAR(100) NOT NULL DEFAULT '',
    model VARCHAR(100) NOT NULL DEFAULT '',
    model_year INT NOT NULL DEFAULT 0,
    initial_odometer BIGINT,
    tracking_start_date DATE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    -- 基线两个字段要么都有，要么都没有
    CONSTRAINT vehicles_baseline_pair CHECK ((initial_odometer IS NULL) = (tracking_start_date IS NULL)),
    CONSTRAINT vehicles_baseline_non_negative CHECK (initial_odometer IS NULL OR initial_odometer >= 0)
);
`

const migrationCreateReadings = `
CREATE TABLE IF NOT EXISTS readings (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    reading_date DATE NOT NULL,
    odometer BIGINT NOT NULL CHECK (odometer >= 0),
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    CONSTRAINT readings_vehicle_date_unique UNIQUE (vehicle_id, reading_date)
);
CREATE INDEX IF NOT EXISTS idx_readings_vehicle_id ON readings(vehicle_id);
CREATE INDEX IF NOT EXISTS idx_readings_reading_date ON readings(reading_date);
`

// 时序不变量的数据库侧实现
// 与 internal/mileage 的 Validate 语义相同：插入/更新的读数必须
// 落在同车辆最近前驱与最近后继的里程值之间 (允许相等)。
// 客户端校验基于读取时的快照，并发提交可能同时通过校验，
// 这里在提交时原子地重新校验。修改任何一侧时必须同步另一侧
const migrationCreateSequenceTrigger = `
CREATE OR REPLACE FUNCTION check_reading_sequence() RETURNS TRIGGER AS $$
DECLARE
    pred_odometer BIGINT;
    pred_date DATE;
    succ_odometer BIGINT;
    succ_date DATE;
BEGIN
    SELECT odometer, reading_date INTO pred_odometer, pred_date
    FROM readings
    WHERE vehicle_id = NEW.vehicle_id
      AND reading_date < NEW.reading_date
      AND id IS DISTINCT FROM NEW.id
    ORDER BY reading_date DESC
    LIMIT 1;

    IF pred_odometer IS NOT NULL AND NEW.odometer < pred_odometer THEN
        RAISE EXCEPTION 'odometer % is below the % recorded on %', NEW.odometer, pred_odometer, pred_date
            USING ERRCODE = 'check_violation';
    END IF;

    SELECT odometer, reading_date INTO succ_odometer, succ_date
    FROM readings
    WHERE vehicle_id = NEW.vehicle_id
      AND reading_date > NEW.reading_date
      AND id IS DISTINCT FROM NEW.id
    ORDER BY reading_date ASC
    LIMIT 1;

    IF succ_odometer IS NOT NULL AND NEW.odometer > succ_odometer THEN
        RAISE EXCEPTION 'odometer % is above the % recorded on %', NEW.odometer, succ_odometer, succ_date
            USING ERRCODE = 'check_violation';
    END IF;

    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS readings_sequence_check ON readings;
CREATE TRIGGER readings_sequence_check
    BEFORE INSERT OR UPDATE ON readings
    FOR EACH ROW EXECUTE FUNCTION check_reading_sequence();
`
