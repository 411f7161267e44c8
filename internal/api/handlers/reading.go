package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odolog/odolog/internal/models"
)

// readingRequest 提交/编辑读数的请求体
type readingRequest struct {
	Date     string `json:"reading_date"`
	Odometer *int64 `json:"odometer"`
	Note     string `json:"note"`
}

// validateRequest 校验请求体 (不写入，仅返回边界)
type validateRequest struct {
	Date      string `json:"reading_date"`
	Odometer  int64  `json:"odometer"`
	ExcludeID int64  `json:"exclude_id"`
}

// ListReadings 获取车辆读数历史
// GET /api/vehicles/:id/readings
func (h *Handler) ListReadings(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	readings, err := h.readingService.History(c.Request.Context(), vehicleID)
	if err != nil {
		h.serviceError(c, err, "list readings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": readings})
}

// SubmitReading 提交新读数
// POST /api/vehicles/:id/readings
// 校验失败返回 422，响应带违反的边界值供前端提示有效范围
func (h *Handler) SubmitReading(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req readingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Odometer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Odometer is required"})
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading date"})
		return
	}

	reading := &models.Reading{
		VehicleID: vehicleID,
		Date:      date,
		Odometer:  *req.Odometer,
		Note:      req.Note,
	}

	result, err := h.readingService.Submit(c.Request.Context(), reading)
	if err != nil {
		h.serviceError(c, err, "submit reading")
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error, "validation": result})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": reading, "validation": result})
}

// ValidateReading 校验候选读数，不写入
// POST /api/vehicles/:id/readings/validate
// 前端在日期或数值变化时调用，渲染 min/max 边界提示
func (h *Handler) ValidateReading(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req validateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading date"})
		return
	}

	result, err := h.readingService.Validate(c.Request.Context(), vehicleID, date, req.Odometer, req.ExcludeID)
	if err != nil {
		h.serviceError(c, err, "validate reading")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// UpdateReading 编辑读数
// PUT /api/readings/:id
func (h *Handler) UpdateReading(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading ID"})
		return
	}

	var req readingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Odometer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Odometer is required"})
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading date"})
		return
	}

	reading, result, err := h.readingService.Update(c.Request.Context(), id, date, *req.Odometer, req.Note)
	if err != nil {
		h.serviceError(c, err, "update reading")
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error, "validation": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reading, "validation": result})
}

// DeleteReading 删除读数
// DELETE /api/readings/:id
func (h *Handler) DeleteReading(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading ID"})
		return
	}

	if err := h.readingService.Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err, "delete reading")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reading deleted"})
}
