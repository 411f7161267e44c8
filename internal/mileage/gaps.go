package mileage

import "github.com/odolog/odolog/internal/models"

// FillGaps 把稀疏的月度序列补齐为以 end 所在月份结尾、
// 恰好 window 个连续自然月的序列 (窗口通常取 6 或 12)
//
// 只画有数据的月份会把时间间隔压缩掉，图表上相隔半年的两条读数
// 看起来像相邻两个月。没有读数的月份合成 distance 0 的占位周期。
// 同一月份有多条读数时保留时间上最后的一条
func FillGaps(periods []models.MonthlyPeriod, window int, end models.Date) []models.MonthlyPeriod {
	if window <= 0 {
		return nil
	}

	byKey := make(map[string]models.MonthlyPeriod, len(periods))
	for _, p := range periods {
		byKey[p.Key] = p
	}

	filled := make([]models.MonthlyPeriod, 0, window)
	for m := end.AddMonths(1 - window); len(filled) < window; m = m.AddMonths(1) {
		if p, ok := byKey[m.MonthKey()]; ok {
			filled = append(filled, p)
			continue
		}
		filled = append(filled, models.MonthlyPeriod{
			Key:       m.MonthKey(),
			Label:     m.MonthLabel(),
			Synthetic: true,
		})
	}
	return filled
}
