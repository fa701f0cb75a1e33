package service

import (
	"fmt"

	"gorm.io/gorm"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

var Sheet = new(SheetService)

type SheetService struct{}

// Get 查询批次
func (s *SheetService) Get(sheetID uint) (*model.SealSheet, error) {
	var sheet model.SealSheet
	if err := database.DB.First(&sheet, sheetID).Error; err != nil {
		return nil, apperr.NotFound("批次不存在")
	}
	return &sheet, nil
}

// List 分页查询批次
func (s *SheetService) List(page, size int, status string) ([]model.SealSheet, int64, error) {
	db := database.DB.Model(&model.SealSheet{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("查询批次总数失败: %v", err)
	}

	var sheets []model.SealSheet
	if err := db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&sheets).Error; err != nil {
		return nil, 0, fmt.Errorf("查询批次列表失败: %v", err)
	}
	return sheets, total, nil
}

// Assign 把批次分配给合作方，unassigned -> assigned
func (s *SheetService) Assign(sheetID, partnerID, actorID uint) error {
	var partner model.Partner
	if err := database.DB.First(&partner, partnerID).Error; err != nil {
		return apperr.NotFound("合作方不存在")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var sheet model.SealSheet
		if err := tx.First(&sheet, sheetID).Error; err != nil {
			return apperr.NotFound("批次不存在")
		}
		if sheet.Status == model.SheetStatusRevoked {
			return apperr.TerminalState("批次已作废")
		}
		if sheet.Status == model.SheetStatusAssigned {
			return apperr.Conflict("批次已分配")
		}

		if err := tx.Model(&sheet).Updates(map[string]interface{}{
			"status":     model.SheetStatusAssigned,
			"partner_id": partnerID,
		}).Error; err != nil {
			return fmt.Errorf("分配批次失败: %v", err)
		}

		Audit.Record("seal_sheet", sheet.ID, "sheet.assigned", actorID, map[string]interface{}{
			"sheet_no":   sheet.SheetNo,
			"partner_id": partnerID,
		})
		return nil
	})
}

// Revoke 作废批次，终态，必须给出原因
// 批次作废后其中的防伪码全部无法再绑定
func (s *SheetService) Revoke(sheetID uint, reason string, actorID uint) error {
	if reason == "" {
		return apperr.Validation("作废原因不能为空")
	}

	var sheet model.SealSheet
	if err := database.DB.First(&sheet, sheetID).Error; err != nil {
		return apperr.NotFound("批次不存在")
	}
	if sheet.Status == model.SheetStatusRevoked {
		return apperr.TerminalState("批次已作废")
	}

	if err := database.DB.Model(&sheet).Updates(map[string]interface{}{
		"status":        model.SheetStatusRevoked,
		"revoke_reason": reason,
	}).Error; err != nil {
		return fmt.Errorf("作废批次失败: %v", err)
	}

	Audit.Record("seal_sheet", sheet.ID, "sheet.revoked", actorID, map[string]interface{}{
		"sheet_no": sheet.SheetNo,
		"reason":   reason,
	})
	return nil
}

// VerifyHash 重算批次成员防伪码的哈希并与存档比对
// 不一致说明批次成员被篡改或数据损坏
func (s *SheetService) VerifyHash(sheetID uint) (bool, string, error) {
	sheet, err := s.Get(sheetID)
	if err != nil {
		return false, "", err
	}

	var codes []string
	if err := database.DB.Model(&model.Token{}).
		Where("sheet_id = ?", sheetID).
		Pluck("code", &codes).Error; err != nil {
		return false, "", fmt.Errorf("查询批次防伪码失败: %v", err)
	}

	recomputed := TokensHash(codes)
	return recomputed == sheet.TokensHash, recomputed, nil
}
