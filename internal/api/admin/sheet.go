package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/middleware"
	"seal-system/internal/service"
)

// GetSheets 查询批次列表
func GetSheets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}

	sheets, total, err := service.Sheet.List(page, size, c.Query("status"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": sheets,
	})
}

// GetSheet 查询单个批次
func GetSheet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	sheet, err := service.Sheet.Get(uint(id))
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, sheet)
}

// AssignSheetRequest 分配批次请求
type AssignSheetRequest struct {
	PartnerID uint `json:"partner_id" binding:"required"`
}

// AssignSheet 把批次分配给合作方
func AssignSheet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var req AssignSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	if err := service.Sheet.Assign(uint(id), req.PartnerID, userID); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{"assigned": true})
}

// RevokeSheetRequest 作废批次请求
type RevokeSheetRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RevokeSheet 作废批次
func RevokeSheet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var req RevokeSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	if err := service.Sheet.Revoke(uint(id), req.Reason, userID); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{"revoked": true})
}

// VerifySheetHash 校验批次哈希
// 重算成员防伪码集合的哈希并与存档比对，用于发现数据损坏
func VerifySheetHash(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	match, recomputed, err := service.Sheet.VerifyHash(uint(id))
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{
		"match":           match,
		"recomputed_hash": recomputed,
	})
}
