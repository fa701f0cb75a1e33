package model

import (
	"time"

	"gorm.io/gorm"
)

// BindingSession 状态
const (
	SessionStatusActive  = "active"
	SessionStatusClosed  = "closed"
	SessionStatusExpired = "expired"
)

// BindingSession 合作方扫码绑定会话，限时，有唯一目标产品
// active_key 在会话生效期间等于合作方ID，关闭后置空；
// (active_key) 上的唯一索引在数据库层面保证每个合作方最多一个生效会话
type BindingSession struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	PartnerID uint           `json:"partner_id" gorm:"index;comment:合作方ID"`
	ProductID uint           `json:"product_id" gorm:"index;comment:目标产品ID"`
	Status    string         `json:"status" gorm:"size:20;default:active;comment:状态"`
	ScanCount int64          `json:"scan_count" gorm:"default:0;comment:会话内扫码次数"`
	ActiveKey *string        `json:"-" gorm:"size:20;uniqueIndex;comment:生效标记，生效时为合作方ID"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"comment:会话截止时间"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
