package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seal-system/internal/config"
	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

var Token = new(TokenService)

type TokenService struct{}

// MaxTokensPerBatch 单批次铸造的编译期硬上限，配置只能调低不能越过
const MaxTokensPerBatch = 1000

// CreateBatch 批量铸造防伪码
// 批次、防伪码、码与批次的关联在同一个事务内创建，要么全部成功要么全部失败；
// 铸造时记录的名义实体只是标注，之后的绑定不会改写它
func (s *TokenService) CreateBatch(entityType string, entityID uint, quantity int, actorID uint) ([]model.Token, *model.SealSheet, error) {
	if entityType == "" {
		return nil, nil, apperr.Validation("实体类型不能为空")
	}
	if quantity <= 0 {
		return nil, nil, apperr.Validation("铸造数量必须大于0")
	}

	limit := config.GlobalConfig.Seal.MaxTokensPerBatch
	if limit > MaxTokensPerBatch {
		limit = MaxTokensPerBatch
	}
	if quantity > limit {
		return nil, nil, apperr.Validation(fmt.Sprintf("铸造数量超出单批次上限%d", limit))
	}

	sheet := &model.SealSheet{
		SheetNo:    generateSheetNo(),
		Status:     model.SheetStatusUnassigned,
		TokenCount: quantity,
	}

	tokens := make([]model.Token, 0, quantity)
	codes := make([]string, 0, quantity)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sheet).Error; err != nil {
			return fmt.Errorf("创建批次失败: %v", err)
		}

		for i := 0; i < quantity; i++ {
			tokens = append(tokens, model.Token{
				Code:       generateTokenCode(),
				EntityType: entityType,
				EntityID:   entityID,
				Status:     model.TokenStatusUnbound,
				SheetID:    &sheet.ID,
			})
		}
		if err := tx.Create(&tokens).Error; err != nil {
			return fmt.Errorf("创建防伪码失败: %v", err)
		}

		for _, t := range tokens {
			codes = append(codes, t.Code)
		}
		sheet.TokensHash = TokensHash(codes)
		if err := tx.Model(sheet).Update("tokens_hash", sheet.TokensHash).Error; err != nil {
			return fmt.Errorf("更新批次哈希失败: %v", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	Audit.Record("seal_sheet", sheet.ID, "token.batch_minted", actorID, map[string]interface{}{
		"sheet_no":    sheet.SheetNo,
		"entity_type": entityType,
		"entity_id":   entityID,
		"quantity":    quantity,
		"tokens_hash": sheet.TokensHash,
	})

	return tokens, sheet, nil
}

// GetByCode 按防伪码查询
func (s *TokenService) GetByCode(code string) (*model.Token, error) {
	var token model.Token
	if err := database.DB.Where("code = ?", code).First(&token).Error; err != nil {
		return nil, apperr.NotFound("防伪码不存在")
	}
	return &token, nil
}

// Revoke 作废防伪码，终态，不可恢复
func (s *TokenService) Revoke(tokenID uint, reason string, actorID uint) error {
	if reason == "" {
		return apperr.Validation("作废原因不能为空")
	}

	var token model.Token
	if err := database.DB.First(&token, tokenID).Error; err != nil {
		return apperr.NotFound("防伪码不存在")
	}
	if token.Status == model.TokenStatusRevoked {
		return apperr.TerminalState("防伪码已作废")
	}

	if err := database.DB.Model(&token).Update("status", model.TokenStatusRevoked).Error; err != nil {
		return fmt.Errorf("作废防伪码失败: %v", err)
	}

	Audit.Record("token", token.ID, "token.revoked", actorID, map[string]interface{}{
		"code":   token.Code,
		"reason": reason,
	})
	return nil
}

// GetByCodes 批量按防伪码查询，任何一个不存在都视为失败
func (s *TokenService) GetByCodes(codes []string) ([]model.Token, error) {
	var tokens []model.Token
	if err := database.DB.Where("code IN ?", codes).Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("查询防伪码失败: %v", err)
	}
	if len(tokens) != len(codes) {
		return nil, apperr.NotFound(fmt.Sprintf("部分防伪码不存在: 请求%d个，找到%d个", len(codes), len(tokens)))
	}
	return tokens, nil
}

// 生成防伪码，SL前缀 + 去掉连字符的uuid
func generateTokenCode() string {
	return "SL" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// 生成批次编号
func generateSheetNo() string {
	return "SH" + time.Now().Format("20060102150405") + fmt.Sprintf("%06d", rand.Intn(1000000))
}
