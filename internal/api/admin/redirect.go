package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/model"
	"seal-system/internal/service"
)

// RedirectRuleRequest 跳转规则请求
type RedirectRuleRequest struct {
	Name            string     `json:"name"`
	EntityType      string     `json:"entity_type"`
	EntityID        uint       `json:"entity_id"`
	TemplateVersion string     `json:"template_version"`
	TargetURL       string     `json:"target_url" binding:"required"`
	Enabled         *bool      `json:"enabled"`
	ActiveFrom      *time.Time `json:"active_from"`
	ActiveUntil     *time.Time `json:"active_until"`
}

// GetRedirectRules 查询跳转规则列表
func GetRedirectRules(c *gin.Context) {
	rules, err := service.Redirect.List()
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, rules)
}

// GetRedirectRule 查询单条跳转规则
func GetRedirectRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	rule, err := service.Redirect.Get(uint(id))
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, rule)
}

// CreateRedirectRule 创建范围跳转规则
func CreateRedirectRule(c *gin.Context) {
	var req RedirectRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	rule := &model.RedirectRule{
		Name:            req.Name,
		EntityType:      req.EntityType,
		EntityID:        req.EntityID,
		TemplateVersion: req.TemplateVersion,
		TargetURL:       req.TargetURL,
		Enabled:         true,
		ActiveFrom:      req.ActiveFrom,
		ActiveUntil:     req.ActiveUntil,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := service.Redirect.Create(rule); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, rule)
}

// UpdateRedirectRule 更新范围跳转规则
func UpdateRedirectRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var req RedirectRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	updates := map[string]interface{}{
		"name":             req.Name,
		"entity_type":      req.EntityType,
		"entity_id":        req.EntityID,
		"template_version": req.TemplateVersion,
		"target_url":       req.TargetURL,
		"active_from":      req.ActiveFrom,
		"active_until":     req.ActiveUntil,
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if err := service.Redirect.Update(uint(id), updates); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, gin.H{"updated": true})
}

// DeleteRedirectRule 删除范围跳转规则
func DeleteRedirectRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if err := service.Redirect.Delete(uint(id)); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, gin.H{"deleted": true})
}

// GetFallbackRule 查询全局兜底规则
func GetFallbackRule(c *gin.Context) {
	rule, err := service.Redirect.GetFallback()
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, rule)
}

// UpsertFallbackRequest 兜底规则请求
type UpsertFallbackRequest struct {
	TargetURL   string     `json:"target_url" binding:"required"`
	ActiveFrom  *time.Time `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until"`
}

// UpsertFallbackRule 创建或更新全局兜底规则
func UpsertFallbackRule(c *gin.Context) {
	var req UpsertFallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	rule, err := service.Redirect.UpsertFallback(req.TargetURL, req.ActiveFrom, req.ActiveUntil)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, rule)
}

// DisableFallbackRule 停用全局兜底规则
func DisableFallbackRule(c *gin.Context) {
	if err := service.Redirect.DisableFallback(); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, gin.H{"disabled": true})
}
