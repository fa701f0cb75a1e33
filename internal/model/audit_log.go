package model

import (
	"time"
)

// AuditLog 审计日志，每次状态流转追加一条，只增不改不删
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	EntityType string    `json:"entity_type" gorm:"size:32;index:idx_audit_entity;comment:实体类型"`
	EntityID   uint      `json:"entity_id" gorm:"index:idx_audit_entity;comment:实体ID"`
	Action     string    `json:"action" gorm:"size:64;index;comment:动作"`
	ActorID    uint      `json:"actor_id" gorm:"index;comment:操作人ID"`
	Metadata   string    `json:"metadata" gorm:"type:text;comment:附加信息(JSON)"`
	CreatedAt  time.Time `json:"created_at"`
}
