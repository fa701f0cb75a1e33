package model

import (
	"time"
)

// OperatorLoginLog 后台登录日志
type OperatorLoginLog struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Username   string    `json:"username" gorm:"size:64;index;comment:登录用户名"`
	IP         string    `json:"ip" gorm:"size:64;comment:登录IP"`
	UserAgent  string    `json:"user_agent" gorm:"size:255;comment:浏览器UA"`
	LoginTime  time.Time `json:"login_time" gorm:"comment:登录时间"`
	IsSuccess  bool      `json:"is_success" gorm:"comment:是否成功"`
	FailReason string    `json:"fail_reason" gorm:"size:128;comment:失败原因"`
	CreatedAt  time.Time `json:"created_at"`
}
