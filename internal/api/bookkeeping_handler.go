package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/model"
	"PolyFluid/internal/service"
)

// BookkeepingHandler 模拟仓位/订单与健康检查接口
type BookkeepingHandler struct {
	svc    *service.BookkeepingService
	logger *logrus.Logger
}

func NewBookkeepingHandler(svc *service.BookkeepingService, logger *logrus.Logger) *BookkeepingHandler {
	return &BookkeepingHandler{svc: svc, logger: logger}
}

// CreatePosition POST /api/positions
func (h *BookkeepingHandler) CreatePosition(c *gin.Context) {
	var doc model.PositionDoc
	if err := c.ShouldBindJSON(&doc); err != nil {
		writeError(c, h.logger, "CreatePosition", errs.Wrap(errs.KindInvalidInput, "invalid request body", err))
		return
	}
	id, err := h.svc.CreatePosition(c.Request.Context(), doc)
	if err != nil {
		writeError(c, h.logger, "CreatePosition", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Position created"})
}

// ListPositions GET /api/positions?user_id=
func (h *BookkeepingHandler) ListPositions(c *gin.Context) {
	userID, err := requiredQuery(c, "user_id")
	if err != nil {
		writeError(c, h.logger, "ListPositions", err)
		return
	}
	list, err := h.svc.ListOpenPositions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "ListPositions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": list})
}

// ClosePosition 只回成功，状态由前端维护
// POST /api/positions/:position_id/close
func (h *BookkeepingHandler) ClosePosition(c *gin.Context) {
	id := c.Param("position_id")
	if err := h.svc.ClosePosition(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, "ClosePosition", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Position closed successfully", "position_id": id})
}

// CreateOrder POST /api/orders
func (h *BookkeepingHandler) CreateOrder(c *gin.Context) {
	var doc model.OrderDoc
	if err := c.ShouldBindJSON(&doc); err != nil {
		writeError(c, h.logger, "CreateOrder", errs.Wrap(errs.KindInvalidInput, "invalid request body", err))
		return
	}
	id, err := h.svc.CreateOrder(c.Request.Context(), doc)
	if err != nil {
		writeError(c, h.logger, "CreateOrder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Order created"})
}

// ListOrders GET /api/orders?user_id=
func (h *BookkeepingHandler) ListOrders(c *gin.Context) {
	userID, err := requiredQuery(c, "user_id")
	if err != nil {
		writeError(c, h.logger, "ListOrders", err)
		return
	}
	list, err := h.svc.ListOpenOrders(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "ListOrders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

type statusCheckRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

// CreateStatusCheck POST /api/status
func (h *BookkeepingHandler) CreateStatusCheck(c *gin.Context) {
	var req statusCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, "CreateStatusCheck", errs.Wrap(errs.KindInvalidInput, "invalid request body", err))
		return
	}
	check, err := h.svc.CreateStatusCheck(c.Request.Context(), req.ClientName)
	if err != nil {
		writeError(c, h.logger, "CreateStatusCheck", err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// ListStatusChecks GET /api/status
func (h *BookkeepingHandler) ListStatusChecks(c *gin.Context) {
	list, err := h.svc.ListStatusChecks(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "ListStatusChecks", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
