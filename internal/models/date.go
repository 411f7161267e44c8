package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout 日期格式 (日粒度，无时区)
const DateLayout = "2006-01-02"

// Date 日历日期 (年-月-日)
// 里程表读数是按"某一天"记录的事件，不是某个时刻，
// 因此不直接使用 time.Time，避免时区换算改变日期
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate 解析 YYYY-MM-DD 格式日期
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf 从 time.Time 提取日历日期
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today 当前日历日期
func Today() Date {
	return DateOf(time.Now())
}

// Time 转换为 UTC 零点时刻 (用于数据库 DATE 列)
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String 格式化为 YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero 是否为零值
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before 是否早于另一日期
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After 是否晚于另一日期
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// Equal 是否同一天
func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// SameMonth 是否同一个自然月
func (d Date) SameMonth(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// MonthKey 月份键 (YYYY-MM)，用于按月聚合
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// MonthLabel 月份展示标签 (如 "Jan 2026")
func (d Date) MonthLabel() string {
	return d.Time().Format("Jan 2006")
}

// AddMonths 增减月份，日固定为 1 号 (仅用于按月遍历)
func (d Date) AddMonths(n int) Date {
	t := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return DateOf(t)
}

// MarshalJSON 序列化为 "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 从 "YYYY-MM-DD" 反序列化
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
