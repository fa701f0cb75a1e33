package model

import (
	"time"
)

// Binding 防伪码与产品的绑定关系
// token_id 上有唯一索引，保证每个防伪码最多只有一条生效绑定；
// 换绑采用删旧插新，previous_binding_id 串成完整的追溯链
type Binding struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	TokenID           uint      `json:"token_id" gorm:"uniqueIndex;comment:防伪码ID"`
	ProductID         uint      `json:"product_id" gorm:"index;comment:绑定的产品ID"`
	PartnerID         uint      `json:"partner_id" gorm:"index;comment:操作的合作方ID"`
	SessionID         *uint     `json:"session_id" gorm:"index;comment:扫码会话ID"`
	IsRebind          bool      `json:"is_rebind" gorm:"default:false;comment:是否为换绑"`
	PreviousBindingID *uint     `json:"previous_binding_id" gorm:"comment:换绑前的绑定ID"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
