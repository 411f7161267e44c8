// Package mileage 里程核心逻辑：读数时序校验与按月里程聚合
//
// 本包只有纯函数：输入是调用方提供的读数快照，不持有状态、
// 不产生副作用，可以在任意 goroutine 并发调用。
// 数据库侧的触发器独立实现了相同的时序不变量 (见 repository 的迁移 SQL)，
// 两处必须人工保持一致
package mileage

import (
	"fmt"

	"github.com/odolog/odolog/internal/models"
)

// Result 校验结果
// 拒绝是常态而非异常，所以作为返回值而不是 error。
// MinValue/MaxValue 在前驱/后继存在时总是填充 (即使校验通过)，
// 供前端渲染"有效范围"提示
type Result struct {
	Valid    bool   `json:"is_valid"`
	Error    string `json:"error,omitempty"`
	MinValue *int64 `json:"min_value,omitempty"`
	MaxValue *int64 `json:"max_value,omitempty"`
}

func reject(reason string, min, max *int64) Result {
	return Result{Valid: false, Error: reason, MinValue: min, MaxValue: max}
}

// Validate 校验一条候选读数 (vehicleID, date, value) 能否加入读数历史
//
// 不能只和"最新一条"比较：补录历史日期的读数时，晚于它的读数
// 完全可以有更大的值。正确的规则是和目标日期的最近前驱、最近后继比较：
//
//	前驱.odometer <= value <= 后继.odometer (允许相等，单调不减)
//
// history 可以包含所有车辆的读数，函数内部按 vehicleID 过滤；
// excludeID 用于编辑场景，排除读数自身 (0 表示不排除)
func Validate(history []models.Reading, vehicleID int64, date models.Date, value int64, excludeID int64) Result {
	if date.IsZero() {
		return reject("invalid date", nil, nil)
	}
	if value < 0 {
		return reject("odometer must be non-negative", nil, nil)
	}

	// 查找同车辆的前驱、后继和同日读数
	var pred, succ, same *models.Reading
	for i := range history {
		r := &history[i]
		if r.VehicleID != vehicleID || (excludeID != 0 && r.ID == excludeID) {
			continue
		}
		switch {
		case r.Date.Equal(date):
			same = r
		case r.Date.Before(date):
			if pred == nil || r.Date.After(pred.Date) {
				pred = r
			}
		default:
			if succ == nil || r.Date.Before(succ.Date) {
				succ = r
			}
		}
	}

	// 边界复制值返回，不让 Result 引用调用方的快照
	var min, max *int64
	if pred != nil {
		v := pred.Odometer
		min = &v
	}
	if succ != nil {
		v := succ.Odometer
		max = &v
	}

	if same != nil {
		return reject(fmt.Sprintf("a reading already exists for %s", date), min, max)
	}
	// 前驱和后继互相矛盾时 (历史数据被绕过校验写入) 也不崩溃，
	// 两个边界独立判断
	if pred != nil && value < pred.Odometer {
		return reject(
			fmt.Sprintf("odometer %d is below the %d recorded on %s", value, pred.Odometer, pred.Date),
			min, max,
		)
	}
	if succ != nil && value > succ.Odometer {
		return reject(
			fmt.Sprintf("odometer %d is above the %d recorded on %s", value, succ.Odometer, succ.Date),
			min, max,
		)
	}

	return Result{Valid: true, MinValue: min, MaxValue: max}
}
