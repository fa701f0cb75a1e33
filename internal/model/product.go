package model

import (
	"time"

	"gorm.io/gorm"
)

// Product 产品，绑定的目标对象
type Product struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"size:128;comment:产品名称"`
	SKU       string         `json:"sku" gorm:"size:64;index;comment:产品编码"`
	PartnerID uint           `json:"partner_id" gorm:"index;comment:所属合作方ID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
