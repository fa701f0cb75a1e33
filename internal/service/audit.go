package service

import (
	"encoding/json"

	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
	"seal-system/internal/pkg/logger"
)

var Audit = new(AuditService)

type AuditService struct{}

// Record 追加一条审计日志
// 审计写入失败只记录运维日志，绝不让主流程失败；
// 因此审计统一在主事务提交之后写入
func (s *AuditService) Record(entityType string, entityID uint, action string, actorID uint, metadata map[string]interface{}) {
	var metaStr string
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			logger.Errorf("审计日志元数据序列化失败 [%s/%d %s]: %v", entityType, entityID, action, err)
		} else {
			metaStr = string(data)
		}
	}

	entry := &model.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		Metadata:   metaStr,
	}

	if err := database.DB.Create(entry).Error; err != nil {
		logger.Errorf("审计日志写入失败 [%s/%d %s]: %v", entityType, entityID, action, err)
	}
}
