package model

import (
	"time"

	"gorm.io/gorm"
)

// Token 状态
const (
	TokenStatusUnbound = "unbound" // 已铸造，未绑定
	TokenStatusActive  = "active"  // 已绑定到具体产品
	TokenStatusRevoked = "revoked" // 已作废，终态
	TokenStatusExpired = "expired" // 已过期
)

// Token 防伪码，批量铸造，全局唯一
type Token struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Code       string         `json:"code" gorm:"size:64;uniqueIndex;comment:防伪码"`
	EntityType string         `json:"entity_type" gorm:"size:32;index:idx_token_entity;comment:铸造时的名义实体类型"`
	EntityID   uint           `json:"entity_id" gorm:"index:idx_token_entity;comment:铸造时的名义实体ID"`
	Status     string         `json:"status" gorm:"size:20;default:unbound;comment:状态"`
	ScanCount  int64          `json:"scan_count" gorm:"default:0;comment:累计扫码次数"`
	ExpiresAt  *time.Time     `json:"expires_at" gorm:"comment:过期时间"`
	SheetID    *uint          `json:"sheet_id" gorm:"index;comment:所属标签页批次ID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsTerminal 是否处于终态，终态防伪码不允许再发生任何绑定流转
func (t *Token) IsTerminal() bool {
	return t.Status == TokenStatusRevoked || t.Status == TokenStatusExpired
}
