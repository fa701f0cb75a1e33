package service

import (
	"time"

	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
	"seal-system/internal/pkg/logger"
)

// CronService 定时任务服务
type CronService struct {
	stopChan chan struct{}
}

var Cron = &CronService{
	stopChan: make(chan struct{}),
}

// Start 启动定时任务
func (s *CronService) Start() {
	go s.sweep()
}

// Stop 停止定时任务
func (s *CronService) Stop() {
	close(s.stopChan)
}

// sweep 周期清理：过期防伪码和超时会话
func (s *CronService) sweep() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireTokens()
			s.expireSessions()
		case <-s.stopChan:
			return
		}
	}
}

// expireTokens 把超过有效期的防伪码标记为过期
func (s *CronService) expireTokens() {
	result := database.DB.Model(&model.Token{}).
		Where("status IN (?) AND expires_at IS NOT NULL AND expires_at <= ?",
			[]string{model.TokenStatusUnbound, model.TokenStatusActive},
			time.Now()).
		Update("status", model.TokenStatusExpired)
	if result.Error != nil {
		logger.Errorf("清理过期防伪码失败: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("已标记%d个防伪码过期", result.RowsAffected)
	}
}

// expireSessions 把超时会话标记为过期并释放生效标记
func (s *CronService) expireSessions() {
	result := database.DB.Model(&model.BindingSession{}).
		Where("status = ? AND expires_at <= ?", model.SessionStatusActive, time.Now()).
		Updates(map[string]interface{}{
			"status":     model.SessionStatusExpired,
			"active_key": nil,
		})
	if result.Error != nil {
		logger.Errorf("清理超时会话失败: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("已标记%d个扫码会话过期", result.RowsAffected)
	}
}
