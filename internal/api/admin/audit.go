package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

// AuditLogQuery 审计日志查询参数
type AuditLogQuery struct {
	Page       int    `form:"page,default=1"`
	Size       int    `form:"size,default=10"`
	EntityType string `form:"entity_type"`
	EntityID   uint   `form:"entity_id"`
	Action     string `form:"action"`
	ActorID    uint   `form:"actor_id"`
}

// GetAuditLogs 查询审计日志
func GetAuditLogs(c *gin.Context) {
	var query AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Size <= 0 {
		query.Size = 10
	}

	db := database.DB.Model(&model.AuditLog{})

	if query.EntityType != "" {
		db = db.Where("entity_type = ?", query.EntityType)
	}
	if query.EntityID > 0 {
		db = db.Where("entity_id = ?", query.EntityID)
	}
	if query.Action != "" {
		db = db.Where("action = ?", query.Action)
	}
	if query.ActorID > 0 {
		db = db.Where("actor_id = ?", query.ActorID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询审计日志总数失败",
		})
		return
	}

	var logs []model.AuditLog
	if err := db.Order("id DESC").
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询审计日志失败",
		})
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": logs,
	})
}

// GetLoginLogs 查询登录日志
func GetLoginLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}

	db := database.DB.Model(&model.OperatorLoginLog{})
	if username := c.Query("username"); username != "" {
		db = db.Where("username LIKE ?", "%"+username+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询登录日志总数失败",
		})
		return
	}

	var logs []model.OperatorLoginLog
	if err := db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询登录日志失败",
		})
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": logs,
	})
}
