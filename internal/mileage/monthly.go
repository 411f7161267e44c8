package mileage

import (
	"sort"

	"github.com/odolog/odolog/internal/models"
)

// vehicleHistory 过滤出指定车辆的读数并按日期升序排序，返回新切片
func vehicleHistory(history []models.Reading, vehicleID int64) []models.Reading {
	var rs []models.Reading
	for _, r := range history {
		if r.VehicleID == vehicleID {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Date.Before(rs[j].Date) })
	return rs
}

// MonthlyMileage 把车辆读数历史转换为按时间排序的每月里程序列
//
// 每条读数产生一个周期，里程为与上一条读数的差值。
// 第一条读数没有前置锚点，里程记 0；唯一的例外是车辆设置了基线
// 且基线起始日期与第一条读数同月，此时用基线值做锚点。
// 差值为负说明不变量被上游绕过 (如外部导入)，按 0 处理而不报错
func MonthlyMileage(history []models.Reading, vehicleID int64, baseline *models.Baseline) []models.MonthlyPeriod {
	rs := vehicleHistory(history, vehicleID)
	if len(rs) == 0 {
		return nil
	}

	periods := make([]models.MonthlyPeriod, 0, len(rs))
	for i, r := range rs {
		p := models.MonthlyPeriod{
			Key:      r.Date.MonthKey(),
			Label:    r.Date.MonthLabel(),
			Odometer: r.Odometer,
		}
		switch {
		case i > 0:
			prev := rs[i-1].Odometer
			p.PrevOdometer = &prev
			if d := r.Odometer - prev; d > 0 {
				p.Distance = d
			}
		case baseline != nil && baseline.TrackingStart.SameMonth(r.Date):
			prev := baseline.InitialOdometer
			p.PrevOdometer = &prev
			if d := r.Odometer - prev; d > 0 {
				p.Distance = d
			}
		}
		periods = append(periods, p)
	}
	return periods
}

// YearToDate 计算车辆在指定年份内已行驶的里程
//
// 锚点是严格早于该年份的最后一条读数。年内没有读数返回 0。
// 年内只有一条读数且没有锚点时，仅当基线起始日期落在该年份内
// 才能用基线推算，否则没有可计算的差值，返回 0
func YearToDate(history []models.Reading, vehicleID int64, year int, baseline *models.Baseline) int64 {
	rs := vehicleHistory(history, vehicleID)

	var anchor *models.Reading
	var inYear []models.Reading
	for i := range rs {
		switch {
		case rs[i].Date.Year < year:
			anchor = &rs[i]
		case rs[i].Date.Year == year:
			inYear = append(inYear, rs[i])
		}
	}

	if len(inYear) == 0 {
		return 0
	}
	if len(inYear) == 1 && anchor == nil {
		if baseline != nil && baseline.TrackingStart.Year == year {
			if d := inYear[0].Odometer - baseline.InitialOdometer; d > 0 {
				return d
			}
		}
		return 0
	}

	start := inYear[0].Odometer
	if anchor != nil {
		start = anchor.Odometer
	}
	if d := inYear[len(inYear)-1].Odometer - start; d > 0 {
		return d
	}
	return 0
}

// Summarize 计算车辆里程概览：年度累计、近 12 个月滚动平均、当月里程
func Summarize(history []models.Reading, vehicleID int64, baseline *models.Baseline, today models.Date) models.MileageSummary {
	const rollingWindow = 12

	filled := FillGaps(MonthlyMileage(history, vehicleID, baseline), rollingWindow, today)

	var total int64
	summary := models.MileageSummary{
		YearToDate: YearToDate(history, vehicleID, today.Year, baseline),
	}
	for _, p := range filled {
		total += p.Distance
		if p.Key == today.MonthKey() {
			summary.CurrentMonth = p.Distance
		}
	}
	summary.MonthlyAverage = float64(total) / float64(rollingWindow)
	return summary
}
