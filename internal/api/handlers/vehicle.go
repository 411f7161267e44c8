package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odolog/odolog/internal/models"
)

// vehicleRequest 创建/更新车辆的请求体
type vehicleRequest struct {
	Name              string  `json:"name"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	ModelYear         int     `json:"model_year"`
	InitialOdometer   *int64  `json:"initial_odometer"`
	TrackingStartDate *string `json:"tracking_start_date"`
}

// toVehicle 请求体转模型，校验基线日期格式
func (req *vehicleRequest) toVehicle(v *models.Vehicle) error {
	v.Name = req.Name
	v.Make = req.Make
	v.Model = req.Model
	v.ModelYear = req.ModelYear
	v.InitialOdometer = req.InitialOdometer
	v.TrackingStartDate = nil
	if req.TrackingStartDate != nil {
		d, err := models.ParseDate(*req.TrackingStartDate)
		if err != nil {
			return err
		}
		v.TrackingStartDate = &d
	}
	return nil
}

// ListVehicles 获取车辆列表
// GET /api/vehicles?include_retired=true
func (h *Handler) ListVehicles(c *gin.Context) {
	includeRetired := c.Query("include_retired") == "true"

	vehicles, err := h.vehicleService.List(c.Request.Context(), includeRetired)
	if err != nil {
		h.serviceError(c, err, "list vehicles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// CreateVehicle 创建车辆
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	vehicle := &models.Vehicle{}
	if err := req.toVehicle(vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tracking start date"})
		return
	}

	if err := h.vehicleService.Create(c.Request.Context(), vehicle); err != nil {
		h.serviceError(c, err, "create vehicle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

// GetVehicle 获取车辆详情
func (h *Handler) GetVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// UpdateVehicle 更新车辆
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var req vehicleRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if err := req.toVehicle(vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tracking start date"})
		return
	}

	if err := h.vehicleService.Update(c.Request.Context(), vehicle); err != nil {
		h.serviceError(c, err, "update vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// RetireVehicle 退役车辆 (软删除)
// POST /api/vehicles/:id/retire
func (h *Handler) RetireVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.vehicleService.Retire(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "retire vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// ReactivateVehicle 恢复已退役车辆
// POST /api/vehicles/:id/reactivate
func (h *Handler) ReactivateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.vehicleService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "reactivate vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}
