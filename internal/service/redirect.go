package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

var Redirect = new(RedirectService)

type RedirectService struct{}

// Resolve 解析防伪码扫码后的跳转目标
// 优先级：实体范围规则 > 标签模板版本规则 > 全局兜底规则 > 不跳转(返回nil)
// 注意：公开验证接口永远不走这里，验证页只展示真实状态
func (s *RedirectService) Resolve(token *model.Token) (*model.RedirectRule, error) {
	now := time.Now()

	// 实体范围规则
	var rules []model.RedirectRule
	if err := database.DB.
		Where("is_fallback = ? AND entity_type = ? AND entity_id = ?", false, token.EntityType, token.EntityID).
		Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("查询跳转规则失败: %v", err)
	}
	for i := range rules {
		if rules[i].ActiveAt(now) {
			return &rules[i], nil
		}
	}

	// 标签模板版本规则，版本记录在防伪码所属批次上
	if token.SheetID != nil {
		var sheet model.SealSheet
		if err := database.DB.First(&sheet, *token.SheetID).Error; err == nil && sheet.TemplateVersion != "" {
			rules = rules[:0]
			if err := database.DB.
				Where("is_fallback = ? AND template_version = ?", false, sheet.TemplateVersion).
				Order("id ASC").Find(&rules).Error; err != nil {
				return nil, fmt.Errorf("查询跳转规则失败: %v", err)
			}
			for i := range rules {
				if rules[i].ActiveAt(now) {
					return &rules[i], nil
				}
			}
		}
	}

	// 全局兜底规则
	fallback, err := s.GetFallback()
	if err != nil {
		return nil, err
	}
	if fallback != nil && fallback.ActiveAt(now) {
		return fallback, nil
	}

	return nil, nil
}

// List 查询跳转规则列表
func (s *RedirectService) List() ([]model.RedirectRule, error) {
	var rules []model.RedirectRule
	if err := database.DB.Order("id DESC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("查询跳转规则失败: %v", err)
	}
	return rules, nil
}

// Get 查询单条规则
func (s *RedirectService) Get(id uint) (*model.RedirectRule, error) {
	var rule model.RedirectRule
	if err := database.DB.First(&rule, id).Error; err != nil {
		return nil, apperr.NotFound("跳转规则不存在")
	}
	return &rule, nil
}

// Create 创建范围规则，兜底规则走UpsertFallback单独的入口
func (s *RedirectService) Create(rule *model.RedirectRule) error {
	if rule.IsFallback {
		return apperr.Validation("兜底规则请使用fallback接口维护")
	}
	if rule.TargetURL == "" {
		return apperr.Validation("跳转目标地址不能为空")
	}
	if rule.EntityType == "" && rule.TemplateVersion == "" {
		return apperr.Validation("规则必须限定实体或标签模板版本")
	}

	if err := database.DB.Create(rule).Error; err != nil {
		return fmt.Errorf("创建跳转规则失败: %v", err)
	}
	return nil
}

// Update 更新范围规则
func (s *RedirectService) Update(id uint, updates map[string]interface{}) error {
	rule, err := s.Get(id)
	if err != nil {
		return err
	}
	if rule.IsFallback {
		return apperr.Validation("兜底规则请使用fallback接口维护")
	}

	if err := database.DB.Model(rule).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新跳转规则失败: %v", err)
	}
	return nil
}

// Delete 删除范围规则
func (s *RedirectService) Delete(id uint) error {
	rule, err := s.Get(id)
	if err != nil {
		return err
	}
	if rule.IsFallback {
		return apperr.Validation("兜底规则请使用fallback接口维护")
	}

	if err := database.DB.Delete(rule).Error; err != nil {
		return fmt.Errorf("删除跳转规则失败: %v", err)
	}
	return nil
}

// GetFallback 查询全局兜底规则，没有则返回nil
func (s *RedirectService) GetFallback() (*model.RedirectRule, error) {
	var rule model.RedirectRule
	err := database.DB.Where("is_fallback = ?", true).First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询兜底规则失败: %v", err)
	}
	return &rule, nil
}

// UpsertFallback 创建或更新全局兜底规则
// 先查后写本身不具备原子性，fallback_key上的唯一索引才是
// "全系统最多一条兜底规则"的真正保证，并发创建时数据库拒绝第二条
func (s *RedirectService) UpsertFallback(targetURL string, activeFrom, activeUntil *time.Time) (*model.RedirectRule, error) {
	if targetURL == "" {
		return nil, apperr.Validation("跳转目标地址不能为空")
	}

	existing, err := s.GetFallback()
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := database.DB.Model(existing).Updates(map[string]interface{}{
			"target_url":   targetURL,
			"active_from":  activeFrom,
			"active_until": activeUntil,
			"enabled":      true,
		}).Error; err != nil {
			return nil, fmt.Errorf("更新兜底规则失败: %v", err)
		}
		return s.GetFallback()
	}

	fallbackKey := "1"
	rule := &model.RedirectRule{
		Name:        "全局兜底跳转",
		TargetURL:   targetURL,
		IsFallback:  true,
		FallbackKey: &fallbackKey,
		Enabled:     true,
		ActiveFrom:  activeFrom,
		ActiveUntil: activeUntil,
	}
	if err := database.DB.Create(rule).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, apperr.Conflict("兜底规则已存在，请重试")
		}
		return nil, fmt.Errorf("创建兜底规则失败: %v", err)
	}
	return rule, nil
}

// DisableFallback 停用兜底规则
func (s *RedirectService) DisableFallback() error {
	existing, err := s.GetFallback()
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("兜底规则不存在")
	}

	if err := database.DB.Model(existing).Update("enabled", false).Error; err != nil {
		return fmt.Errorf("停用兜底规则失败: %v", err)
	}
	return nil
}
