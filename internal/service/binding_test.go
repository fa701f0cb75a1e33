package service

import (
	"sync"
	"testing"

	"seal-system/internal/model"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/pkg/database"
)

func TestBindFromScan(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, _ := mintAssignedBatch(t, partner.ID, 2)
	session := openSession(t, partner.ID, product.ID)

	result, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if err != nil {
		t.Fatalf("BindFromScan() error = %v", err)
	}
	if result.Status != BindStatusBound {
		t.Fatalf("结果 = %q, want bound", result.Status)
	}
	if result.BindingID == 0 {
		t.Error("缺少绑定ID")
	}

	got, err := Token.GetByCode(tokens[0].Code)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Status != model.TokenStatusActive {
		t.Errorf("绑定后状态 = %q, want active", got.Status)
	}
	if n := sessionScanCount(t, session.ID); n != 1 {
		t.Errorf("会话计数 = %d, want 1", n)
	}
}

// 同一产品的重复扫码必须无害：不建新绑定，不加计数
func TestBindFromScanIdempotent(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, _ := mintAssignedBatch(t, partner.ID, 1)
	session := openSession(t, partner.ID, product.ID)

	first, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if err != nil {
		t.Fatalf("首次绑定失败: %v", err)
	}

	second, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if err != nil {
		t.Fatalf("重复扫码失败: %v", err)
	}
	if second.Status != BindStatusAlreadyBound {
		t.Fatalf("结果 = %q, want already_bound", second.Status)
	}
	if second.BindingID != first.BindingID {
		t.Error("重复扫码返回了不同的绑定ID")
	}

	var count int64
	database.DB.Model(&model.Binding{}).Where("token_id = ?", tokens[0].ID).Count(&count)
	if count != 1 {
		t.Errorf("绑定记录数 = %d, want 1", count)
	}
	if n := sessionScanCount(t, session.ID); n != 1 {
		t.Errorf("重复扫码后会话计数 = %d, want 1", n)
	}
}

// 并发首绑：同一个码被两台设备同时扫到，恰好一次bound、一次already_bound，
// 绑定记录始终只有一条
func TestBindFromScanConcurrentFirstBind(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, _ := mintAssignedBatch(t, partner.ID, 1)
	session := openSession(t, partner.ID, product.ID)

	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = result.Status
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("并发绑定 %d 失败: %v", i, err)
		}
	}
	bound, already := 0, 0
	for _, status := range results {
		switch status {
		case BindStatusBound:
			bound++
		case BindStatusAlreadyBound:
			already++
		}
	}
	if bound != 1 || already != 1 {
		t.Errorf("并发结果 = %v, want 恰好一次bound加一次already_bound", results)
	}

	var count int64
	database.DB.Model(&model.Binding{}).Where("token_id = ?", tokens[0].ID).Count(&count)
	if count != 1 {
		t.Errorf("绑定记录数 = %d, want 1", count)
	}
	if n := sessionScanCount(t, session.ID); n != 1 {
		t.Errorf("并发首绑后会话计数 = %d, want 1", n)
	}

	got, err := Token.GetByCode(tokens[0].Code)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Status != model.TokenStatusActive {
		t.Errorf("并发首绑后状态 = %q, want active", got.Status)
	}
}

// 换绑两段式：检测阶段无任何状态变更，确认后删旧插新并保留追溯链
func TestRebindFlow(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	product2 := &model.Product{Name: "另一产品", SKU: "SKU-002", PartnerID: partner.ID}
	if err := database.DB.Create(product2).Error; err != nil {
		t.Fatalf("创建产品失败: %v", err)
	}
	tokens, _ := mintAssignedBatch(t, partner.ID, 1)

	// 先绑到产品1
	openSession(t, partner.ID, product.ID)
	first, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if err != nil {
		t.Fatalf("首次绑定失败: %v", err)
	}

	// 切到产品2的会话再扫同一个码
	if err := Session.Close(partner.ID, 1); err != nil {
		t.Fatalf("关闭会话失败: %v", err)
	}
	session2 := openSession(t, partner.ID, product2.ID)

	detect, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if err != nil {
		t.Fatalf("检测扫码失败: %v", err)
	}
	if detect.Status != BindStatusRebindRequired {
		t.Fatalf("结果 = %q, want rebind_required", detect.Status)
	}
	if detect.ExistingBindingID != first.BindingID {
		t.Error("检测结果未带回现有绑定ID")
	}
	if detect.CurrentProductID != product.ID {
		t.Errorf("当前绑定产品 = %d, want %d", detect.CurrentProductID, product.ID)
	}
	// 检测不产生状态变更
	if n := sessionScanCount(t, session2.ID); n != 0 {
		t.Errorf("检测后会话计数 = %d, want 0", n)
	}

	// 确认换绑
	rebind, err := Binding.ConfirmRebind(partner.ID, tokens[0].ID, detect.ExistingBindingID, 1)
	if err != nil {
		t.Fatalf("ConfirmRebind() error = %v", err)
	}
	if rebind.PreviousBindingID != first.BindingID {
		t.Error("追溯链未指向旧绑定")
	}

	current, err := Binding.GetCurrent(tokens[0].ID)
	if err != nil {
		t.Fatalf("查询当前绑定失败: %v", err)
	}
	if current == nil {
		t.Fatal("换绑后缺少当前绑定")
	}
	if current.ProductID != product2.ID {
		t.Errorf("当前绑定产品 = %d, want %d", current.ProductID, product2.ID)
	}
	if !current.IsRebind {
		t.Error("新绑定未标记为换绑")
	}
	if current.PreviousBindingID == nil || *current.PreviousBindingID != first.BindingID {
		t.Error("新绑定未记录换绑前的绑定ID")
	}
	if n := sessionScanCount(t, session2.ID); n != 1 {
		t.Errorf("换绑后会话计数 = %d, want 1", n)
	}

	// 旧绑定已被删除，当前绑定始终单行
	var count int64
	database.DB.Model(&model.Binding{}).Where("token_id = ?", tokens[0].ID).Count(&count)
	if count != 1 {
		t.Errorf("绑定记录数 = %d, want 1", count)
	}

	// 拿着过期的existing_binding_id再确认一次必须拒绝
	_, err = Binding.ConfirmRebind(partner.ID, tokens[0].ID, first.BindingID, 1)
	if !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("过期确认错误 = %v, want CONFLICT", err)
	}
}

func TestBindFromScanRejections(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, sheet := mintAssignedBatch(t, partner.ID, 3)

	// 没有会话
	_, err := Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("无会话错误 = %v, want NOT_FOUND", err)
	}

	openSession(t, partner.ID, product.ID)

	// 不存在的码
	_, err = Binding.BindFromScan(partner.ID, "SLnotexist", 1)
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("未知码错误 = %v, want NOT_FOUND", err)
	}

	// 终态码
	if err := Token.Revoke(tokens[0].ID, "作废测试", 1); err != nil {
		t.Fatalf("作废失败: %v", err)
	}
	_, err = Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if !apperr.Is(err, apperr.CodeTerminalState) {
		t.Errorf("终态码错误 = %v, want TERMINAL_STATE", err)
	}

	// 其他合作方的码
	other := &model.Partner{Name: "另一合作方", Status: "active"}
	if err := database.DB.Create(other).Error; err != nil {
		t.Fatalf("创建合作方失败: %v", err)
	}
	otherProduct := &model.Product{Name: "别家产品", PartnerID: other.ID}
	if err := database.DB.Create(otherProduct).Error; err != nil {
		t.Fatalf("创建产品失败: %v", err)
	}
	openSession(t, other.ID, otherProduct.ID)
	_, err = Binding.BindFromScan(other.ID, tokens[1].Code, 1)
	if !apperr.Is(err, apperr.CodeForbidden) {
		t.Errorf("跨合作方错误 = %v, want FORBIDDEN", err)
	}

	// 批次作废后整批不可绑定
	if err := Sheet.Revoke(sheet.ID, "整批召回", 1); err != nil {
		t.Fatalf("作废批次失败: %v", err)
	}
	_, err = Binding.BindFromScan(partner.ID, tokens[2].Code, 1)
	if !apperr.Is(err, apperr.CodeForbidden) {
		t.Errorf("作废批次错误 = %v, want FORBIDDEN", err)
	}
}

// 未分配批次的码不允许绑定
func TestBindFromScanUnassignedSheet(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)

	tokens, _, err := Token.CreateBatch("product", 0, 1, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}
	openSession(t, partner.ID, product.ID)

	_, err = Binding.BindFromScan(partner.ID, tokens[0].Code, 1)
	if !apperr.Is(err, apperr.CodeForbidden) {
		t.Errorf("未分配批次错误 = %v, want FORBIDDEN", err)
	}
}

func TestListByPartner(t *testing.T) {
	resetTables(t)
	partner, product := createPartnerWithProduct(t)
	tokens, _ := mintAssignedBatch(t, partner.ID, 3)
	openSession(t, partner.ID, product.ID)

	for _, tok := range tokens {
		if _, err := Binding.BindFromScan(partner.ID, tok.Code, 1); err != nil {
			t.Fatalf("绑定失败: %v", err)
		}
	}

	bindings, total, err := Binding.ListByPartner(partner.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListByPartner() error = %v", err)
	}
	if total != 3 {
		t.Errorf("总数 = %d, want 3", total)
	}
	if len(bindings) != 2 {
		t.Errorf("分页结果数 = %d, want 2", len(bindings))
	}
}
