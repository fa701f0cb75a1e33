package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seal-system/internal/middleware"
	"seal-system/internal/service"
)

// GetActiveSession 查询当前合作方的生效扫码会话
func GetActiveSession(c *gin.Context) {
	partnerID := middleware.GetPartnerID(c)

	session, err := service.Session.GetActive(partnerID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, session)
}

// OpenSessionRequest 开启会话请求
type OpenSessionRequest struct {
	ProductID       uint `json:"product_id" binding:"required"`
	DurationMinutes int  `json:"duration_minutes"`
}

// OpenSession 开启扫码会话
func OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	partnerID := middleware.GetPartnerID(c)
	userID := middleware.GetUserID(c)

	session, err := service.Session.Open(partnerID, req.ProductID, req.DurationMinutes, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, session)
}

// CloseSession 关闭扫码会话
func CloseSession(c *gin.Context) {
	partnerID := middleware.GetPartnerID(c)
	userID := middleware.GetUserID(c)

	if err := service.Session.Close(partnerID, userID); err != nil {
		Fail(c, err)
		return
	}

	OK(c, gin.H{"closed": true})
}

// BindRequest 扫码绑定请求
type BindRequest struct {
	Token string `json:"token" binding:"required"`
}

// BindFromScan 扫码绑定
// 返回bound/already_bound/rebind_required三种结果之一，
// already_bound表示无害的重复扫码，调用方可以直接给出成功提示
func BindFromScan(c *gin.Context) {
	var req BindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	partnerID := middleware.GetPartnerID(c)
	userID := middleware.GetUserID(c)

	result, err := service.Binding.BindFromScan(partnerID, req.Token, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, result)
}

// ConfirmRebindRequest 换绑确认请求
type ConfirmRebindRequest struct {
	TokenID           uint `json:"token_id" binding:"required"`
	ExistingBindingID uint `json:"existing_binding_id" binding:"required"`
}

// ConfirmRebind 确认换绑
// existing_binding_id与当前绑定不一致时返回CONFLICT，调用方需重新扫码
func ConfirmRebind(c *gin.Context) {
	var req ConfirmRebindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	partnerID := middleware.GetPartnerID(c)
	userID := middleware.GetUserID(c)

	result, err := service.Binding.ConfirmRebind(partnerID, req.TokenID, req.ExistingBindingID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, gin.H{
		"rebound":             true,
		"binding_id":          result.BindingID,
		"previous_binding_id": result.PreviousBindingID,
	})
}

// GetPartnerBindings 查询当前合作方的绑定记录
func GetPartnerBindings(c *gin.Context) {
	partnerID := middleware.GetPartnerID(c)

	page, size := pageQuery(c)
	bindings, total, err := service.Binding.ListByPartner(partnerID, page, size)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, gin.H{
		"total": total,
		"items": bindings,
	})
}
