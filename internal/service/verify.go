package service

import (
	"time"

	"gorm.io/gorm"

	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

var Verify = new(VerifyService)

type VerifyService struct{}

// VerifyResult 公开验证结果，只陈述事实
type VerifyResult struct {
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	ScanCount   int64      `json:"scan_count"`
	SheetStatus string     `json:"sheet_status,omitempty"`
	Bound       bool       `json:"bound"`
	ProductID   uint       `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	BoundAt     *time.Time `json:"bound_at,omitempty"`
}

// Check 公开验证，返回防伪码的真实状态
// 这是信任边界：此路径永远不应用任何跳转规则，也不做任何状态变更
func (s *VerifyService) Check(code string) (*VerifyResult, error) {
	token, err := Token.GetByCode(code)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		Code:      token.Code,
		Status:    token.Status,
		ScanCount: token.ScanCount,
	}

	if token.SheetID != nil {
		var sheet model.SealSheet
		if err := database.DB.First(&sheet, *token.SheetID).Error; err == nil {
			result.SheetStatus = sheet.Status
		}
	}

	binding, err := Binding.GetCurrent(token.ID)
	if err != nil {
		return nil, err
	}
	if binding != nil {
		result.Bound = true
		result.ProductID = binding.ProductID
		result.BoundAt = &binding.CreatedAt

		var product model.Product
		if err := database.DB.First(&product, binding.ProductID).Error; err == nil {
			result.ProductName = product.Name
		}
	}

	return result, nil
}

// CountScan 扫码入口的计数，数据库内就地自增
func (s *VerifyService) CountScan(tokenID uint) error {
	return database.DB.Model(&model.Token{}).
		Where("id = ?", tokenID).
		UpdateColumn("scan_count", gorm.Expr("scan_count + 1")).Error
}
