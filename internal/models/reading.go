package models

import "time"

// Reading 一次里程表读数
// 同一车辆同一天最多一条 (vehicle_id, reading_date 唯一)；
// 按日期排序后里程值必须单调不减，写入时校验
type Reading struct {
	ID        int64     `json:"id" db:"id"`
	VehicleID int64     `json:"vehicle_id" db:"vehicle_id"`
	Date      Date      `json:"reading_date" db:"reading_date"`
	Odometer  int64     `json:"odometer" db:"odometer"`
	Note      string    `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
