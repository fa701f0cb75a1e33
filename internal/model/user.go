package model

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RoleOperator = "operator" // 运营人员，负责铸码和生成打印
	RolePartner  = "partner"  // 合作方员工，负责现场扫码绑定
)

type User struct {
	ID        uint   `gorm:"primarykey"`
	Username  string `gorm:"size:64;uniqueIndex"`
	Password  string `gorm:"size:64"`
	Nickname  string `gorm:"size:64"`
	Role      string `gorm:"size:20;default:partner"` // operator: 运营, partner: 合作方员工
	PartnerID *uint  `gorm:"index"`                   // 合作方员工所属的合作方
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// IsOperator 是否为运营人员
func (u *User) IsOperator() bool {
	return u.Role == RoleOperator
}
