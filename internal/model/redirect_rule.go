package model

import (
	"time"

	"gorm.io/gorm"
)

// RedirectRule 扫码跳转规则
// 按实体或标签模板版本限定范围，或标记为全局兜底规则；
// fallback_key 在兜底规则上固定为"1"，其余为NULL，唯一索引保证全系统最多一条兜底规则
// (MySQL不支持部分唯一索引，用可空列+唯一索引等价实现)
type RedirectRule struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	Name            string         `json:"name" gorm:"size:64;comment:规则名称"`
	EntityType      string         `json:"entity_type" gorm:"size:32;index:idx_rule_entity;comment:限定的实体类型"`
	EntityID        uint           `json:"entity_id" gorm:"index:idx_rule_entity;comment:限定的实体ID"`
	TemplateVersion string         `json:"template_version" gorm:"size:32;index;comment:限定的标签模板版本"`
	TargetURL       string         `json:"target_url" gorm:"size:512;comment:跳转目标地址"`
	IsFallback      bool           `json:"is_fallback" gorm:"default:false;comment:是否为全局兜底规则"`
	FallbackKey     *string        `json:"-" gorm:"size:4;uniqueIndex;comment:兜底规则唯一标记"`
	Enabled         bool           `json:"enabled" gorm:"default:true;comment:是否启用"`
	ActiveFrom      *time.Time     `json:"active_from" gorm:"comment:生效开始时间"`
	ActiveUntil     *time.Time     `json:"active_until" gorm:"comment:生效结束时间"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// ActiveAt 规则在指定时刻是否处于生效窗口内
func (r *RedirectRule) ActiveAt(now time.Time) bool {
	if !r.Enabled {
		return false
	}
	if r.ActiveFrom != nil && now.Before(*r.ActiveFrom) {
		return false
	}
	if r.ActiveUntil != nil && now.After(*r.ActiveUntil) {
		return false
	}
	return true
}
