package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/odolog/odolog/internal/repository"
	"github.com/odolog/odolog/internal/service"
	"github.com/odolog/odolog/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger         *zap.Logger
	vehicleService *service.VehicleService
	readingService *service.ReadingService
	wsHub          *ws.Hub
	defaultWindow  int
	upgrader       websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	vehicleService *service.VehicleService,
	readingService *service.ReadingService,
	wsHub *ws.Hub,
	defaultWindow int,
) *Handler {
	return &Handler{
		logger:         logger,
		vehicleService: vehicleService,
		readingService: readingService,
		wsHub:          wsHub,
		defaultWindow:  defaultWindow,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 车辆
		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.CreateVehicle)
		api.GET("/vehicles/:id", h.GetVehicle)
		api.PUT("/vehicles/:id", h.UpdateVehicle)
		api.POST("/vehicles/:id/retire", h.RetireVehicle)         // 软删除
		api.POST("/vehicles/:id/reactivate", h.ReactivateVehicle) // 恢复

		// 读数
		api.GET("/vehicles/:id/readings", h.ListReadings)
		api.POST("/vehicles/:id/readings", h.SubmitReading)
		api.POST("/vehicles/:id/readings/validate", h.ValidateReading) // 前端边界提示
		api.PUT("/readings/:id", h.UpdateReading)
		api.DELETE("/readings/:id", h.DeleteReading)

		// 里程统计
		api.GET("/vehicles/:id/mileage/monthly", h.GetMonthlyMileage)
		api.GET("/vehicles/:id/mileage/summary", h.GetMileageSummary)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// serviceError 把 service/repository 错误映射为 HTTP 响应
func (h *Handler) serviceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrVehicleRetired):
		c.JSON(http.StatusConflict, gin.H{"error": "Vehicle is retired"})
	case errors.Is(err, service.ErrLifecycleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBaselinePair):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to "+action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
