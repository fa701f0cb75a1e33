package model

import (
	"time"

	"gorm.io/gorm"
)

// SealSheet 状态
const (
	SheetStatusUnassigned = "unassigned" // 已生成，未分配给合作方
	SheetStatusAssigned   = "assigned"   // 已分配
	SheetStatusRevoked    = "revoked"    // 已作废，终态
)

// SealSheet 标签页批次，一次打印生成的一组防伪码
type SealSheet struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	SheetNo         string         `json:"sheet_no" gorm:"size:32;uniqueIndex;comment:批次编号"`
	Status          string         `json:"status" gorm:"size:20;default:unassigned;comment:状态"`
	PartnerID       *uint          `json:"partner_id" gorm:"index;comment:分配的合作方ID"`
	TokenCount      int            `json:"token_count" gorm:"comment:包含的防伪码数量"`
	TokensHash      string         `json:"tokens_hash" gorm:"size:64;comment:排序后防伪码集合的sha256"`
	TemplateVersion string         `json:"template_version" gorm:"size:32;comment:生成时使用的标签模板版本"`
	RevokeReason    string         `json:"revoke_reason" gorm:"size:255;comment:作废原因"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}
