package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"seal-system/internal/config"
	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

var Session = new(SessionService)

type SessionService struct{}

// GetActive 查询合作方当前生效的扫码会话，没有则返回nil
// 顺带处理过期：已过时限的会话就地标记过期并释放生效标记
func (s *SessionService) GetActive(partnerID uint) (*model.BindingSession, error) {
	var session model.BindingSession
	err := database.DB.Where("partner_id = ? AND status = ?", partnerID, model.SessionStatusActive).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询会话失败: %v", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if err := database.DB.Model(&session).Updates(map[string]interface{}{
			"status":     model.SessionStatusExpired,
			"active_key": nil,
		}).Error; err != nil {
			return nil, fmt.Errorf("标记会话过期失败: %v", err)
		}
		return nil, nil
	}

	return &session, nil
}

// Open 开启扫码会话
// active_key上的唯一索引保证一个合作方同时最多一个生效会话，
// 并发开启时数据库直接拒绝第二个
func (s *SessionService) Open(partnerID, productID uint, durationMinutes int, actorID uint) (*model.BindingSession, error) {
	var product model.Product
	if err := database.DB.First(&product, productID).Error; err != nil {
		return nil, apperr.NotFound("产品不存在")
	}
	if product.PartnerID != partnerID {
		return nil, apperr.Forbidden("无权为其他合作方的产品开启会话")
	}

	if existing, err := s.GetActive(partnerID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("已有进行中的扫码会话")
	}

	if durationMinutes <= 0 {
		durationMinutes = config.GlobalConfig.Seal.SessionDuration
	}

	activeKey := fmt.Sprintf("%d", partnerID)
	session := &model.BindingSession{
		PartnerID: partnerID,
		ProductID: productID,
		Status:    model.SessionStatusActive,
		ActiveKey: &activeKey,
		ExpiresAt: time.Now().Add(time.Duration(durationMinutes) * time.Minute),
	}

	if err := database.DB.Create(session).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, apperr.Conflict("已有进行中的扫码会话")
		}
		return nil, fmt.Errorf("创建会话失败: %v", err)
	}

	Audit.Record("binding_session", session.ID, "session.opened", actorID, map[string]interface{}{
		"partner_id": partnerID,
		"product_id": productID,
		"expires_at": session.ExpiresAt,
	})
	return session, nil
}

// Close 关闭会话并释放生效标记
func (s *SessionService) Close(partnerID, actorID uint) error {
	session, err := s.GetActive(partnerID)
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.NotFound("没有进行中的扫码会话")
	}

	if err := database.DB.Model(session).Updates(map[string]interface{}{
		"status":     model.SessionStatusClosed,
		"active_key": nil,
	}).Error; err != nil {
		return fmt.Errorf("关闭会话失败: %v", err)
	}

	Audit.Record("binding_session", session.ID, "session.closed", actorID, map[string]interface{}{
		"scan_count": session.ScanCount,
	})
	return nil
}

// IncrementScanCount 会话扫码计数原子自增
// 必须是数据库内的就地自增，同一合作方多台设备并发扫码不丢计数
func (s *SessionService) IncrementScanCount(tx *gorm.DB, sessionID uint) error {
	return tx.Model(&model.BindingSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("scan_count", gorm.Expr("scan_count + 1")).Error
}
