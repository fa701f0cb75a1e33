package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"seal-system/internal/pkg/apperr"
)

// Fail 统一错误响应
// msg面向人，error是稳定的机器可读错误码，调用方据此编程
func Fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()
	c.JSON(status, gin.H{
		"code":  status,
		"msg":   appErr.Msg,
		"error": appErr.Code,
	})
}

// OK 统一成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"code": 200,
		"data": data,
	})
}

// pageQuery 解析分页参数并填默认值
func pageQuery(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	return page, size
}
