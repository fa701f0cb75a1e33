package service

import (
	"testing"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
)

func TestVerifyCheckUnknownCode(t *testing.T) {
	resetTables(t)

	_, err := Verify.Check("SLnotexist")
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("错误 = %v, want NOT_FOUND", err)
	}
}

func TestVerifyCheckUnbound(t *testing.T) {
	resetTables(t)

	tokens, _, err := Token.CreateBatch("product", 0, 1, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	result, err := Verify.Check(tokens[0].Code)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Bound {
		t.Error("未绑定的码不应标记为已绑定")
	}
	if result.Status != model.TokenStatusUnbound {
		t.Errorf("状态 = %q, want unbound", result.Status)
	}
	if result.SheetStatus != model.SheetStatusUnassigned {
		t.Errorf("批次状态 = %q, want unassigned", result.SheetStatus)
	}
}

// 验证只陈述事实：展示绑定后的真实状态，且自身不产生任何变更
func TestVerifyCheckBound(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, _ := mintAssignedBatch(t, partner.ID, 1)
	openSession(t, partner.ID, product.ID)

	if _, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1); err != nil {
		t.Fatalf("绑定失败: %v", err)
	}

	result, err := Verify.Check(tokens[0].Code)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !result.Bound {
		t.Error("已绑定的码应标记为已绑定")
	}
	if result.ProductID != product.ID {
		t.Errorf("产品 = %d, want %d", result.ProductID, product.ID)
	}
	if result.ProductName != product.Name {
		t.Errorf("产品名 = %q, want %q", result.ProductName, product.Name)
	}
	if result.Status != model.TokenStatusActive {
		t.Errorf("状态 = %q, want active", result.Status)
	}
	if result.BoundAt == nil {
		t.Error("缺少绑定时间")
	}

	// 验证不改扫码计数
	again, err := Verify.Check(tokens[0].Code)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if again.ScanCount != result.ScanCount {
		t.Error("验证自身不应改变扫码计数")
	}
}

func TestCountScan(t *testing.T) {
	resetTables(t)

	tokens, _, err := Token.CreateBatch("product", 0, 1, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := Verify.CountScan(tokens[0].ID); err != nil {
			t.Fatalf("CountScan() error = %v", err)
		}
	}

	got, err := Token.GetByCode(tokens[0].Code)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.ScanCount != 3 {
		t.Errorf("扫码计数 = %d, want 3", got.ScanCount)
	}
}
