package service

import (
	"sort"
	"testing"

	"seal-system/internal/pkg/apperr"
)

func TestCanonicalTokens(t *testing.T) {
	got, err := CanonicalTokens([]string{"SLc", "SLa", "SLb"})
	if err != nil {
		t.Fatalf("CanonicalTokens() error = %v", err)
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("结果未排序: %v", got)
	}
	if len(got) != 3 || got[0] != "SLa" {
		t.Errorf("CanonicalTokens() = %v", got)
	}
}

func TestCanonicalTokensRejects(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
	}{
		{"空列表", nil},
		{"包含空值", []string{"SLa", ""}},
		{"包含重复值", []string{"SLa", "SLb", "SLa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CanonicalTokens(tt.codes)
			if !apperr.Is(err, apperr.CodeValidation) {
				t.Errorf("错误 = %v, want VALIDATION", err)
			}
		})
	}
}

// 哈希对输入顺序不敏感，对集合内容敏感
func TestTokensHash(t *testing.T) {
	a := TokensHash([]string{"SLa", "SLb", "SLc"})
	b := TokensHash([]string{"SLc", "SLa", "SLb"})
	if a != b {
		t.Error("同一集合不同顺序的哈希不一致")
	}

	c := TokensHash([]string{"SLa", "SLb"})
	if a == c {
		t.Error("不同集合的哈希相同")
	}

	if len(a) != 64 {
		t.Errorf("哈希长度 = %d, want 64", len(a))
	}
}

func TestGenerateRejectsAmbiguousInput(t *testing.T) {
	resetTables(t)
	cfg := DefaultRenderConfig()

	_, err := Generate.Generate(GenerateInput{Quantity: 5, Codes: []string{"SLa"}}, cfg, 1)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("quantity与tokens同时给出时错误 = %v, want VALIDATION", err)
	}

	_, err = Generate.Generate(GenerateInput{}, cfg, 1)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("两者都未给出时错误 = %v, want VALIDATION", err)
	}
}

func TestGenerateUnknownCodes(t *testing.T) {
	resetTables(t)
	cfg := DefaultRenderConfig()

	_, err := Generate.Generate(GenerateInput{Codes: []string{"SLnotexist"}}, cfg, 1)
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("渲染不存在的码时错误 = %v, want NOT_FOUND", err)
	}
}

// 同样的(防伪码集合, 渲染配置)两次生成产物逐字节一致
func TestGenerateReproducible(t *testing.T) {
	resetTables(t)
	cfg := DefaultRenderConfig()

	tokens, sheet, err := Token.CreateBatch("product", 0, 3, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}
	codes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		codes = append(codes, tok.Code)
	}

	first, err := Generate.Generate(GenerateInput{Codes: codes}, cfg, 1)
	if err != nil {
		t.Fatalf("第一次生成失败: %v", err)
	}
	second, err := Generate.Generate(GenerateInput{Codes: codes}, cfg, 1)
	if err != nil {
		t.Fatalf("第二次生成失败: %v", err)
	}

	if first.TokensHash != second.TokensHash {
		t.Error("两次生成的集合哈希不一致")
	}
	if len(first.Sheets) != len(second.Sheets) {
		t.Fatalf("页数不一致: %d vs %d", len(first.Sheets), len(second.Sheets))
	}
	for i := range first.Sheets {
		if first.Sheets[i] != second.Sheets[i] {
			t.Errorf("第%d页SVG不一致", i+1)
		}
	}
	for i := range first.Seals {
		if first.Seals[i].SVG != second.Seals[i].SVG {
			t.Errorf("第%d枚标签SVG不一致", i+1)
		}
	}

	// 所有码来自同一批次，结果带回批次信息
	if first.SheetID != sheet.ID {
		t.Errorf("SheetID = %d, want %d", first.SheetID, sheet.ID)
	}
	if first.TokensHash != sheet.TokensHash {
		t.Error("集合哈希与批次存档不一致")
	}
}

// 铸码即渲染模式：结果标签数等于数量，批次记录模板版本
func TestGenerateMintMode(t *testing.T) {
	resetTables(t)
	cfg := DefaultRenderConfig()
	cfg.TemplateVersion = "v2"

	result, err := Generate.Generate(GenerateInput{Quantity: 4, EntityType: "product"}, cfg, 1)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(result.Seals) != 4 {
		t.Errorf("标签数 = %d, want 4", len(result.Seals))
	}
	if result.SheetID == 0 {
		t.Fatal("铸码模式下缺少批次信息")
	}

	sheet, err := Sheet.Get(result.SheetID)
	if err != nil {
		t.Fatalf("查询批次失败: %v", err)
	}
	if sheet.TemplateVersion != "v2" {
		t.Errorf("批次模板版本 = %q, want v2", sheet.TemplateVersion)
	}
	if sheet.TokensHash != result.TokensHash {
		t.Error("批次哈希与生成结果不一致")
	}
}
