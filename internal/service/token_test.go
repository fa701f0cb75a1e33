package service

import (
	"strings"
	"testing"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

func TestCreateBatch(t *testing.T) {
	resetTables(t)

	tokens, sheet, err := Token.CreateBatch("product", 7, 5, 1)
	if err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}
	if len(tokens) != 5 {
		t.Fatalf("铸造数量 = %d, want 5", len(tokens))
	}

	codes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Status != model.TokenStatusUnbound {
			t.Errorf("新铸防伪码状态 = %q, want unbound", tok.Status)
		}
		if tok.SheetID == nil || *tok.SheetID != sheet.ID {
			t.Error("防伪码未关联批次")
		}
		if !strings.HasPrefix(tok.Code, "SL") {
			t.Errorf("防伪码格式错误: %q", tok.Code)
		}
		codes = append(codes, tok.Code)
	}

	if sheet.Status != model.SheetStatusUnassigned {
		t.Errorf("新批次状态 = %q, want unassigned", sheet.Status)
	}
	if sheet.TokenCount != 5 {
		t.Errorf("批次数量 = %d, want 5", sheet.TokenCount)
	}
	if sheet.TokensHash != TokensHash(codes) {
		t.Error("批次哈希与成员集合不符")
	}

	// 铸码写审计
	var count int64
	database.DB.Model(&model.AuditLog{}).
		Where("entity_type = ? AND entity_id = ? AND action = ?", "seal_sheet", sheet.ID, "token.batch_minted").
		Count(&count)
	if count != 1 {
		t.Errorf("铸码审计记录数 = %d, want 1", count)
	}
}

// 超上限请求整体拒绝，不留下任何半成品数据
func TestCreateBatchOverLimit(t *testing.T) {
	resetTables(t)

	_, _, err := Token.CreateBatch("product", 0, MaxTokensPerBatch+1, 1)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("错误 = %v, want VALIDATION", err)
	}

	var tokenCount, sheetCount int64
	database.DB.Model(&model.Token{}).Count(&tokenCount)
	database.DB.Model(&model.SealSheet{}).Count(&sheetCount)
	if tokenCount != 0 || sheetCount != 0 {
		t.Errorf("拒绝后残留数据: tokens=%d sheets=%d", tokenCount, sheetCount)
	}
}

func TestCreateBatchValidation(t *testing.T) {
	resetTables(t)

	if _, _, err := Token.CreateBatch("", 0, 5, 1); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("空实体类型错误 = %v, want VALIDATION", err)
	}
	if _, _, err := Token.CreateBatch("product", 0, 0, 1); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("零数量错误 = %v, want VALIDATION", err)
	}
}

func TestGetByCodes(t *testing.T) {
	resetTables(t)

	tokens, _, err := Token.CreateBatch("product", 0, 3, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	got, err := Token.GetByCodes([]string{tokens[0].Code, tokens[1].Code})
	if err != nil {
		t.Fatalf("GetByCodes() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("查询结果数 = %d, want 2", len(got))
	}

	// 任何一个不存在都整体失败
	_, err = Token.GetByCodes([]string{tokens[0].Code, "SLmissing"})
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("部分缺失错误 = %v, want NOT_FOUND", err)
	}
}

func TestRevokeToken(t *testing.T) {
	resetTables(t)

	tokens, _, err := Token.CreateBatch("product", 0, 1, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	if err := Token.Revoke(tokens[0].ID, "印刷瑕疵", 1); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	got, err := Token.GetByCode(tokens[0].Code)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Status != model.TokenStatusRevoked {
		t.Errorf("状态 = %q, want revoked", got.Status)
	}

	// 终态不可重复作废
	if err := Token.Revoke(tokens[0].ID, "再作废", 1); !apperr.Is(err, apperr.CodeTerminalState) {
		t.Errorf("重复作废错误 = %v, want TERMINAL_STATE", err)
	}

	// 作废必须给原因
	if err := Token.Revoke(tokens[0].ID, "", 1); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("空原因错误 = %v, want VALIDATION", err)
	}
}

func TestSheetVerifyHash(t *testing.T) {
	resetTables(t)

	tokens, sheet, err := Token.CreateBatch("product", 0, 3, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	match, _, err := Sheet.VerifyHash(sheet.ID)
	if err != nil {
		t.Fatalf("VerifyHash() error = %v", err)
	}
	if !match {
		t.Error("新批次哈希校验应当通过")
	}

	// 篡改任意一个成员后校验失败
	if err := database.DB.Model(&model.Token{}).
		Where("id = ?", tokens[0].ID).
		Update("code", "SLtampered").Error; err != nil {
		t.Fatalf("篡改数据失败: %v", err)
	}
	match, recomputed, err := Sheet.VerifyHash(sheet.ID)
	if err != nil {
		t.Fatalf("VerifyHash() error = %v", err)
	}
	if match {
		t.Error("篡改后哈希校验应当失败")
	}
	if recomputed == sheet.TokensHash {
		t.Error("重算哈希不应等于存档哈希")
	}
}

func TestSheetAssign(t *testing.T) {
	resetTables(t)
	partner, _ := createPartnerWithProduct(t)

	_, sheet, err := Token.CreateBatch("product", 0, 2, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	if err := Sheet.Assign(sheet.ID, partner.ID, 1); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	got, err := Sheet.Get(sheet.ID)
	if err != nil {
		t.Fatalf("查询批次失败: %v", err)
	}
	if got.Status != model.SheetStatusAssigned {
		t.Errorf("状态 = %q, want assigned", got.Status)
	}
	if got.PartnerID == nil || *got.PartnerID != partner.ID {
		t.Error("批次未记录合作方")
	}

	// 已分配批次不允许二次分配
	if err := Sheet.Assign(sheet.ID, partner.ID, 1); !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("二次分配错误 = %v, want CONFLICT", err)
	}
}

func TestSheetRevoke(t *testing.T) {
	resetTables(t)

	_, sheet, err := Token.CreateBatch("product", 0, 2, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	if err := Sheet.Revoke(sheet.ID, "", 1); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("空原因错误 = %v, want VALIDATION", err)
	}

	if err := Sheet.Revoke(sheet.ID, "整批召回", 1); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	got, _ := Sheet.Get(sheet.ID)
	if got.Status != model.SheetStatusRevoked {
		t.Errorf("状态 = %q, want revoked", got.Status)
	}
	if got.RevokeReason != "整批召回" {
		t.Errorf("作废原因 = %q", got.RevokeReason)
	}

	// 终态：不可重复作废，也不可再分配
	if err := Sheet.Revoke(sheet.ID, "再作废", 1); !apperr.Is(err, apperr.CodeTerminalState) {
		t.Errorf("重复作废错误 = %v, want TERMINAL_STATE", err)
	}
	partner, _ := createPartnerWithProduct(t)
	if err := Sheet.Assign(sheet.ID, partner.ID, 1); !apperr.Is(err, apperr.CodeTerminalState) {
		t.Errorf("作废后分配错误 = %v, want TERMINAL_STATE", err)
	}
}
