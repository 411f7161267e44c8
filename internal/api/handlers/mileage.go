package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetMonthlyMileage 获取月度里程图表数据
// GET /api/vehicles/:id/mileage/monthly?window=6|12
// 序列以当前月份结尾、长度固定为 window，无读数的月份补零，
// 保证图表时间轴连续
func (h *Handler) GetMonthlyMileage(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	window := h.defaultWindow
	if raw := c.Query("window"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 || w > 60 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window"})
			return
		}
		window = w
	}

	periods, err := h.readingService.MonthlyChart(c.Request.Context(), vehicleID, window)
	if err != nil {
		h.serviceError(c, err, "compute monthly mileage")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": periods,
		"meta": gin.H{"window": window},
	})
}

// GetMileageSummary 获取里程概览 (年度累计 / 月均 / 当月)
// GET /api/vehicles/:id/mileage/summary
func (h *Handler) GetMileageSummary(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	summary, err := h.readingService.Summary(c.Request.Context(), vehicleID)
	if err != nil {
		h.serviceError(c, err, "compute mileage summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
