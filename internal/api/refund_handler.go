package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/service"
)

// RefundHandler 平仓并退还 SOL
type RefundHandler struct {
	refunds *service.RefundService
	logger  *logrus.Logger
}

func NewRefundHandler(refunds *service.RefundService, logger *logrus.Logger) *RefundHandler {
	return &RefundHandler{refunds: refunds, logger: logger}
}

// CloseWithRefund 余额不足 400，签名/提交失败 500，只返回签名和金额
// POST /api/positions/close-with-refund?position_id=&wallet_address=&amount_sol=
func (h *RefundHandler) CloseWithRefund(c *gin.Context) {
	positionID, err := requiredQuery(c, "position_id")
	if err != nil {
		writeError(c, h.logger, "CloseWithRefund", err)
		return
	}
	wallet, err := requiredQuery(c, "wallet_address")
	if err != nil {
		writeError(c, h.logger, "CloseWithRefund", err)
		return
	}
	rawAmount, err := requiredQuery(c, "amount_sol")
	if err != nil {
		writeError(c, h.logger, "CloseWithRefund", err)
		return
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		writeError(c, h.logger, "CloseWithRefund", errs.New(errs.KindInvalidInput, "amount_sol must be a number"))
		return
	}

	res, err := h.refunds.Refund(c.Request.Context(), positionID, wallet, amount)
	if err != nil {
		writeError(c, h.logger, "CloseWithRefund", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
