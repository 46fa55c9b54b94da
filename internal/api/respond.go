package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
)

// writeError 按错误分类返回状态码；响应只包含对外文案，原始错误只进日志
func writeError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)
	entry := logger.WithError(err).WithFields(logrus.Fields{"op": op, "kind": kind.String(), "status": status})
	if status >= http.StatusInternalServerError {
		entry.Error("请求处理失败")
	} else {
		entry.Warn("请求处理失败")
	}
	msg := errs.PublicMessage(err)
	c.JSON(status, gin.H{"error": msg, "detail": msg})
}

// queryLimit 解析 limit 参数，缺省为 def，必须在 [1, max] 内
func queryLimit(c *gin.Context, def, max int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, errs.New(errs.KindInvalidInput, "limit must be between 1 and "+strconv.Itoa(max))
	}
	return n, nil
}

// requiredQuery 必填查询参数
func requiredQuery(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", errs.New(errs.KindInvalidInput, name+" is required")
	}
	return v, nil
}
