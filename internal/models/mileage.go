package models

// MonthlyPeriod 某车辆某个自然月的里程统计 (派生值，不落库)
// 每次读取时从 Reading 集合重新计算
type MonthlyPeriod struct {
	Key          string `json:"key"`   // 月份键 YYYY-MM
	Label        string `json:"label"` // 展示标签，如 "Jan 2026"
	Distance     int64  `json:"distance"`
	Odometer     int64  `json:"odometer"`                // 锚定该月的原始读数，补零月份为 0
	PrevOdometer *int64 `json:"prev_odometer,omitempty"` // 上一周期的原始读数，首条为 null
	Synthetic    bool   `json:"synthetic,omitempty"`     // 补零生成的占位月份
}

// MileageSummary 车辆里程概览 (派生值)
type MileageSummary struct {
	YearToDate     int64   `json:"year_to_date"`
	MonthlyAverage float64 `json:"monthly_average"` // 近 12 个月滚动平均
	CurrentMonth   int64   `json:"current_month"`
}
