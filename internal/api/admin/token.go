package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/middleware"
	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
	"seal-system/internal/service"
)

// CreateTokenBatchRequest 批量铸码请求
type CreateTokenBatchRequest struct {
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   uint   `json:"entity_id"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// CreateTokenBatch 批量铸造防伪码
func CreateTokenBatch(c *gin.Context) {
	var req CreateTokenBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	tokens, sheet, err := service.Token.CreateBatch(req.EntityType, req.EntityID, req.Quantity, userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	codes := make([]string, 0, len(tokens))
	for _, t := range tokens {
		codes = append(codes, t.Code)
	}

	api.OK(c, gin.H{
		"sheet_id":    sheet.ID,
		"sheet_no":    sheet.SheetNo,
		"tokens_hash": sheet.TokensHash,
		"tokens":      codes,
	})
}

// TokenQuery 防伪码查询参数
type TokenQuery struct {
	Page    int    `form:"page,default=1"`
	Size    int    `form:"size,default=10"`
	Code    string `form:"code"`
	Status  string `form:"status"`
	SheetID uint   `form:"sheet_id"`
}

// GetTokens 查询防伪码列表
func GetTokens(c *gin.Context) {
	var query TokenQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	// 设置默认值
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Size <= 0 {
		query.Size = 10
	}

	db := database.DB.Model(&model.Token{})

	// 构建查询条件
	if query.Code != "" {
		db = db.Where("code LIKE ?", "%"+query.Code+"%")
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.SheetID > 0 {
		db = db.Where("sheet_id = ?", query.SheetID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询防伪码总数失败",
		})
		return
	}

	var tokens []model.Token
	if err := db.Order("id DESC").
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&tokens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询防伪码列表失败",
		})
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": tokens,
	})
}

// GetToken 查询单个防伪码及其当前绑定
func GetToken(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var token model.Token
	if err := database.DB.First(&token, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code": 404,
			"msg":  "防伪码不存在",
		})
		return
	}

	binding, err := service.Binding.GetCurrent(token.ID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{
		"token":   token,
		"binding": binding,
	})
}

// RevokeTokenRequest 作废请求
type RevokeTokenRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RevokeToken 作废防伪码
func RevokeToken(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var req RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	if err := service.Token.Revoke(uint(id), req.Reason, userID); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{"revoked": true})
}
