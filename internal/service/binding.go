package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

var Binding = new(BindingService)

type BindingService struct{}

// 扫码绑定结果状态
const (
	BindStatusBound          = "bound"           // 本次扫码完成绑定
	BindStatusAlreadyBound   = "already_bound"   // 已绑定到同一产品，无任何变更
	BindStatusRebindRequired = "rebind_required" // 已绑定到其他产品，需人工确认换绑
)

// BindResult 扫码绑定的处理结果
type BindResult struct {
	Status            string `json:"status"`
	TokenID           uint   `json:"token_id"`
	BindingID         uint   `json:"binding_id,omitempty"`
	ExistingBindingID uint   `json:"existing_binding_id,omitempty"`
	CurrentProductID  uint   `json:"current_product_id,omitempty"`
	TargetProductID   uint   `json:"target_product_id"`
}

// RebindResult 换绑确认结果
type RebindResult struct {
	BindingID         uint `json:"binding_id"`
	PreviousBindingID uint `json:"previous_binding_id"`
}

// BindFromScan 处理一次扫码绑定
// 读取当前绑定状态并作出决定的整个过程在一个事务内完成，
// 对防伪码行加锁串行化同一个码的并发扫码；
// bindings.token_id的唯一索引兜底：即便锁失效，同一个码也绝不会出现两条绑定
func (s *BindingService) BindFromScan(partnerID uint, code string, actorID uint) (*BindResult, error) {
	session, err := Session.GetActive(partnerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound("没有进行中的扫码会话")
	}

	result := &BindResult{TargetProductID: session.ProductID}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var token model.Token
		if err := database.LockForUpdate(tx).
			Where("code = ?", code).First(&token).Error; err != nil {
			return apperr.NotFound("防伪码不存在")
		}
		result.TokenID = token.ID

		if err := s.checkScannable(tx, &token, partnerID); err != nil {
			return err
		}

		var binding model.Binding
		err := tx.Where("token_id = ?", token.ID).First(&binding).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("查询绑定失败: %v", err)
		}

		// 已有绑定：同产品为无害重扫，异产品进入换绑确认流程，都不做任何变更
		if err == nil {
			return s.resolveExisting(result, &binding, session.ProductID)
		}

		// 未绑定：创建绑定
		newBinding := &model.Binding{
			TokenID:   token.ID,
			ProductID: session.ProductID,
			PartnerID: partnerID,
			SessionID: &session.ID,
		}
		if err := tx.Create(newBinding).Error; err != nil {
			if isDuplicateKeyErr(err) {
				// 并发首绑竞争失败，以赢家写入的绑定为准重新判定
				var winner model.Binding
				if err := tx.Where("token_id = ?", token.ID).First(&winner).Error; err != nil {
					return apperr.Conflict("绑定状态变化，请重新扫码")
				}
				return s.resolveExisting(result, &winner, session.ProductID)
			}
			return fmt.Errorf("创建绑定失败: %v", err)
		}

		if err := tx.Model(&token).Update("status", model.TokenStatusActive).Error; err != nil {
			return fmt.Errorf("更新防伪码状态失败: %v", err)
		}
		if err := Session.IncrementScanCount(tx, session.ID); err != nil {
			return fmt.Errorf("更新会话计数失败: %v", err)
		}

		result.Status = BindStatusBound
		result.BindingID = newBinding.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case BindStatusBound:
		Audit.Record("binding", result.BindingID, "binding.bound", actorID, map[string]interface{}{
			"token_id":   result.TokenID,
			"product_id": result.TargetProductID,
			"session_id": session.ID,
		})
	case BindStatusRebindRequired:
		// 检测不产生任何状态变更，只留审计记录
		Audit.Record("token", result.TokenID, "binding.rebind_detected", actorID, map[string]interface{}{
			"existing_binding_id": result.ExistingBindingID,
			"current_product_id":  result.CurrentProductID,
			"target_product_id":   result.TargetProductID,
		})
	}

	return result, nil
}

// resolveExisting 根据已存在的绑定判定扫码结果
func (s *BindingService) resolveExisting(result *BindResult, binding *model.Binding, targetProductID uint) error {
	if binding.ProductID == targetProductID {
		// 重复扫码必须无害：不建新绑定，不加扫码计数
		result.Status = BindStatusAlreadyBound
		result.BindingID = binding.ID
		return nil
	}
	result.Status = BindStatusRebindRequired
	result.ExistingBindingID = binding.ID
	result.CurrentProductID = binding.ProductID
	return nil
}

// ConfirmRebind 确认换绑，两段式协议的第二段
// 只有当防伪码当前绑定ID仍等于检测阶段拿到的existingBindingID时才执行，
// 否则说明状态已被他人改动，拒绝并要求重新扫码；
// 删旧插新而非原地更新：当前绑定始终是单行查询，previous_binding_id保留完整追溯链
func (s *BindingService) ConfirmRebind(partnerID, tokenID, existingBindingID, actorID uint) (*RebindResult, error) {
	session, err := Session.GetActive(partnerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound("没有进行中的扫码会话")
	}

	result := &RebindResult{}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var token model.Token
		if err := database.LockForUpdate(tx).
			First(&token, tokenID).Error; err != nil {
			return apperr.NotFound("防伪码不存在")
		}

		if err := s.checkScannable(tx, &token, partnerID); err != nil {
			return err
		}

		var current model.Binding
		if err := tx.Where("token_id = ?", token.ID).First(&current).Error; err != nil {
			return apperr.Conflict("绑定状态已变化，请重新扫码")
		}
		if current.ID != existingBindingID {
			return apperr.Conflict("绑定状态已变化，请重新扫码")
		}

		if err := tx.Delete(&current).Error; err != nil {
			return fmt.Errorf("删除旧绑定失败: %v", err)
		}

		previousID := current.ID
		newBinding := &model.Binding{
			TokenID:           token.ID,
			ProductID:         session.ProductID,
			PartnerID:         partnerID,
			SessionID:         &session.ID,
			IsRebind:          true,
			PreviousBindingID: &previousID,
		}
		if err := tx.Create(newBinding).Error; err != nil {
			return fmt.Errorf("创建新绑定失败: %v", err)
		}

		if err := Session.IncrementScanCount(tx, session.ID); err != nil {
			return fmt.Errorf("更新会话计数失败: %v", err)
		}

		result.BindingID = newBinding.ID
		result.PreviousBindingID = previousID
		return nil
	})
	if err != nil {
		return nil, err
	}

	Audit.Record("binding", result.BindingID, "binding.rebind_confirmed", actorID, map[string]interface{}{
		"token_id":            tokenID,
		"previous_binding_id": result.PreviousBindingID,
		"product_id":          session.ProductID,
		"session_id":          session.ID,
	})

	return result, nil
}

// checkScannable 终态与归属校验，绑定和换绑共用
func (s *BindingService) checkScannable(tx *gorm.DB, token *model.Token, partnerID uint) error {
	if token.IsTerminal() {
		return apperr.TerminalState(fmt.Sprintf("防伪码已%s", statusLabel(token.Status)))
	}

	if token.SheetID == nil {
		return apperr.Forbidden("防伪码未分配批次，不允许绑定")
	}
	var sheet model.SealSheet
	if err := tx.First(&sheet, *token.SheetID).Error; err != nil {
		return apperr.NotFound("批次不存在")
	}
	if sheet.Status == model.SheetStatusRevoked {
		return apperr.Forbidden("批次已作废，不允许绑定")
	}
	if sheet.PartnerID == nil || *sheet.PartnerID != partnerID {
		// 合作方之间严格隔离
		return apperr.Forbidden("防伪码不属于当前合作方")
	}
	return nil
}

// GetCurrent 查询防伪码当前绑定，单行查询
func (s *BindingService) GetCurrent(tokenID uint) (*model.Binding, error) {
	var binding model.Binding
	if err := database.DB.Where("token_id = ?", tokenID).First(&binding).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询绑定失败: %v", err)
	}
	return &binding, nil
}

// ListByPartner 分页查询合作方的绑定
func (s *BindingService) ListByPartner(partnerID uint, page, size int) ([]model.Binding, int64, error) {
	db := database.DB.Model(&model.Binding{}).Where("partner_id = ?", partnerID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("查询绑定总数失败: %v", err)
	}

	var bindings []model.Binding
	if err := db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&bindings).Error; err != nil {
		return nil, 0, fmt.Errorf("查询绑定列表失败: %v", err)
	}
	return bindings, total, nil
}

func statusLabel(status string) string {
	switch status {
	case model.TokenStatusRevoked:
		return "作废"
	case model.TokenStatusExpired:
		return "过期"
	default:
		return status
	}
}

// isDuplicateKeyErr 识别唯一索引冲突，兼容MySQL与SQLite的报错文案
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
