package models

import "time"

// Vehicle 车辆信息
// 车辆不做物理删除，只通过 is_active 软删除，
// 保留历史读数用于统计和审计
type Vehicle struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Make      string `json:"make" db:"make"`
	Model     string `json:"model" db:"model"`
	ModelYear int    `json:"model_year" db:"model_year"`

	// 基线：用户声明的开始记录前的里程表读数
	// 两个字段要么都有，要么都没有
	InitialOdometer   *int64 `json:"initial_odometer,omitempty" db:"initial_odometer"`
	TrackingStartDate *Date  `json:"tracking_start_date,omitempty" db:"tracking_start_date"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Baseline 合成基线读数 (开始记录前的里程表值)
type Baseline struct {
	InitialOdometer int64
	TrackingStart   Date
}

// Baseline 返回车辆的基线，未设置时返回 nil
func (v *Vehicle) Baseline() *Baseline {
	if v.InitialOdometer == nil || v.TrackingStartDate == nil {
		return nil
	}
	return &Baseline{
		InitialOdometer: *v.InitialOdometer,
		TrackingStart:   *v.TrackingStartDate,
	}
}

// HasBaseline 是否设置了基线
func (v *Vehicle) HasBaseline() bool {
	return v.InitialOdometer != nil && v.TrackingStartDate != nil
}
