package model

import (
	"time"

	"gorm.io/gorm"
)

// Partner 合作方，负责现场扫码绑定的经销商或工厂
type Partner struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"size:128;comment:合作方名称"`
	Contact   string         `json:"contact" gorm:"size:64;comment:联系人"`
	Status    string         `json:"status" gorm:"size:20;default:active;comment:状态"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
