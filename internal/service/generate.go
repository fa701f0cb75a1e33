package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"seal-system/internal/config"
	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
	"seal-system/internal/types"
)

var Generate = new(GenerateService)

type GenerateService struct{}

// GenerateInput 生成请求，两种互斥模式：
// 指定Quantity时先铸码再渲染，指定Codes时渲染已有防伪码
type GenerateInput struct {
	Quantity   int
	EntityType string
	EntityID   uint
	Codes      []string
}

// SealGraphic 单枚标签的渲染产物
type SealGraphic struct {
	Code string `json:"code"`
	SVG  string `json:"svg"`
}

// GenerateResult 生成结果
type GenerateResult struct {
	SheetID       uint               `json:"sheet_id"`
	SheetNo       string             `json:"sheet_no"`
	Seals         []SealGraphic      `json:"seals"`
	Sheets        []string           `json:"sheets"`
	Layout        types.LayoutResult `json:"layout"`
	PageCount     int                `json:"page_count"`
	SealsPerSheet int                `json:"seals_per_sheet"`
	TokensHash    string             `json:"tokens_hash"`
}

// CanonicalTokens 规范化防伪码集合：字典序排序，拒绝空值和重复
// 任何渲染之前都必须先走这一步，可复现性从这里开始
func CanonicalTokens(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, apperr.Validation("防伪码列表不能为空")
	}

	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)

	for i, code := range sorted {
		if code == "" {
			return nil, apperr.Validation("防伪码列表包含空值")
		}
		if i > 0 && sorted[i-1] == code {
			return nil, apperr.Validation("防伪码列表包含重复值: " + code)
		}
	}
	return sorted, nil
}

// TokensHash 排序后防伪码集合的sha256
func TokensHash(codes []string) string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// DefaultRenderConfig 从全局配置取渲染默认值
func DefaultRenderConfig() types.RenderConfig {
	sealCfg := config.GlobalConfig.Seal
	return types.RenderConfig{
		DiameterMM:      sealCfg.DefaultDiameterMM,
		MarginMM:        sealCfg.DefaultMarginMM,
		Paper:           sealCfg.DefaultPaper,
		TemplateVersion: "v1",
		DPI:             sealCfg.DPI,
		Decorations:     types.DefaultDecorations(),
	}
}

// Generate 生成标签矢量图和整页排版
// 同样的(防伪码集合, 渲染配置)输入，输出保证完全一致
func (s *GenerateService) Generate(input GenerateInput, cfg types.RenderConfig, actorID uint) (*GenerateResult, error) {
	codes, sheet, err := s.resolveTokens(input, cfg, actorID)
	if err != nil {
		return nil, err
	}

	layout, err := Layout.Compute(cfg.DiameterMM, cfg.Paper, cfg.MarginMM, len(codes))
	if err != nil {
		return nil, err
	}

	seals := make([]SealGraphic, 0, len(codes))
	for _, code := range codes {
		svg, err := Render.RenderSeal(code, cfg)
		if err != nil {
			return nil, err
		}
		seals = append(seals, SealGraphic{Code: code, SVG: svg})
	}

	sheets, err := Compose.ComposeSheets(codes, layout, cfg)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Seals:         seals,
		Sheets:        sheets,
		Layout:        *layout,
		PageCount:     layout.TotalSheets,
		SealsPerSheet: layout.PerSheet,
		TokensHash:    TokensHash(codes),
	}
	if sheet != nil {
		result.SheetID = sheet.ID
		result.SheetNo = sheet.SheetNo
	}

	s.recordGeneration("seal_sheet.generated", result, cfg, actorID)
	return result, nil
}

// GeneratePDF 生成可打印PDF
// 与Generate走同一套规范化和审计流程，两条路径的可复现性约束完全一致
func (s *GenerateService) GeneratePDF(input GenerateInput, cfg types.RenderConfig, actorID uint) ([]byte, *GenerateResult, error) {
	codes, sheet, err := s.resolveTokens(input, cfg, actorID)
	if err != nil {
		return nil, nil, err
	}

	layout, err := Layout.Compute(cfg.DiameterMM, cfg.Paper, cfg.MarginMM, len(codes))
	if err != nil {
		return nil, nil, err
	}

	data, err := Export.ExportPDF(codes, layout, cfg)
	if err != nil {
		return nil, nil, err
	}

	result := &GenerateResult{
		Layout:        *layout,
		PageCount:     layout.TotalSheets,
		SealsPerSheet: layout.PerSheet,
		TokensHash:    TokensHash(codes),
	}
	if sheet != nil {
		result.SheetID = sheet.ID
		result.SheetNo = sheet.SheetNo
	}

	s.recordGeneration("seal_sheet.exported", result, cfg, actorID)
	return data, result, nil
}

// resolveTokens 解析双模式输入，返回规范化(已排序)的防伪码集合
func (s *GenerateService) resolveTokens(input GenerateInput, cfg types.RenderConfig, actorID uint) ([]string, *model.SealSheet, error) {
	if len(input.Codes) > 0 && input.Quantity > 0 {
		return nil, nil, apperr.Validation("quantity与tokens只能二选一")
	}

	// 渲染已有防伪码
	if len(input.Codes) > 0 {
		codes, err := CanonicalTokens(input.Codes)
		if err != nil {
			return nil, nil, err
		}
		tokens, err := Token.GetByCodes(codes)
		if err != nil {
			return nil, nil, err
		}

		// 所有防伪码来自同一批次时带回批次信息
		sheet := sameSheet(tokens)
		return codes, sheet, nil
	}

	// 先铸码再渲染
	if input.Quantity <= 0 {
		return nil, nil, apperr.Validation("必须指定quantity或tokens")
	}
	entityType := input.EntityType
	if entityType == "" {
		entityType = "product"
	}
	tokens, sheet, err := Token.CreateBatch(entityType, input.EntityID, input.Quantity, actorID)
	if err != nil {
		return nil, nil, err
	}

	// 记录本次生成使用的模板版本，跳转规则可按它限定范围
	if cfg.TemplateVersion != "" {
		if err := database.DB.Model(sheet).Update("template_version", cfg.TemplateVersion).Error; err != nil {
			return nil, nil, err
		}
	}

	codes := make([]string, 0, len(tokens))
	for _, t := range tokens {
		codes = append(codes, t.Code)
	}
	canonical, err := CanonicalTokens(codes)
	if err != nil {
		return nil, nil, err
	}
	return canonical, sheet, nil
}

// sameSheet 所有防伪码属于同一批次时返回该批次
func sameSheet(tokens []model.Token) *model.SealSheet {
	var sheetID *uint
	for i := range tokens {
		if tokens[i].SheetID == nil {
			return nil
		}
		if sheetID == nil {
			sheetID = tokens[i].SheetID
		} else if *sheetID != *tokens[i].SheetID {
			return nil
		}
	}
	if sheetID == nil {
		return nil
	}
	sheet, err := Sheet.Get(*sheetID)
	if err != nil {
		return nil
	}
	return sheet
}

// recordGeneration 把防伪码集合哈希和完整渲染配置写入审计日志
// 凭这条记录即可验证任意一次重新生成是否与原始产物一致
func (s *GenerateService) recordGeneration(action string, result *GenerateResult, cfg types.RenderConfig, actorID uint) {
	cfgJSON, _ := json.Marshal(cfg)
	Audit.Record("seal_sheet", result.SheetID, action, actorID, map[string]interface{}{
		"tokens_hash":   result.TokensHash,
		"render_config": json.RawMessage(cfgJSON),
		"page_count":    result.PageCount,
		"per_sheet":     result.SealsPerSheet,
	})
}
