package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"seal-system/internal/config"
	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

func TestMain(m *testing.M) {
	config.SetupTest()
	if err := database.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "初始化测试数据库失败: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// resetTables 清空所有表，用例之间互不干扰
func resetTables(t *testing.T) {
	t.Helper()
	models := []interface{}{
		&model.Binding{},
		&model.BindingSession{},
		&model.RedirectRule{},
		&model.Token{},
		&model.SealSheet{},
		&model.AuditLog{},
		&model.Product{},
		&model.Partner{},
		&model.User{},
		&model.OperatorLoginLog{},
	}
	for _, m := range models {
		if err := database.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(m).Error; err != nil {
			t.Fatalf("清空数据表失败: %v", err)
		}
	}
}

// createPartnerWithProduct 建一个合作方和它名下的产品
func createPartnerWithProduct(t *testing.T) (*model.Partner, *model.Product) {
	t.Helper()
	partner := &model.Partner{Name: "测试合作方", Status: "active"}
	if err := database.DB.Create(partner).Error; err != nil {
		t.Fatalf("创建合作方失败: %v", err)
	}
	product := &model.Product{Name: "测试产品", SKU: "SKU-001", PartnerID: partner.ID}
	if err := database.DB.Create(product).Error; err != nil {
		t.Fatalf("创建产品失败: %v", err)
	}
	return partner, product
}

// mintAssignedBatch 铸造一批防伪码并把批次分配给合作方
func mintAssignedBatch(t *testing.T, partnerID uint, quantity int) ([]model.Token, *model.SealSheet) {
	t.Helper()
	tokens, sheet, err := Token.CreateBatch("product", 0, quantity, 1)
	if err != nil {
		t.Fatalf("铸码失败: %v", err)
	}
	if err := Sheet.Assign(sheet.ID, partnerID, 1); err != nil {
		t.Fatalf("分配批次失败: %v", err)
	}
	sheet, err = Sheet.Get(sheet.ID)
	if err != nil {
		t.Fatalf("查询批次失败: %v", err)
	}
	return tokens, sheet
}

// openSession 为合作方开启扫码会话
func openSession(t *testing.T, partnerID, productID uint) *model.BindingSession {
	t.Helper()
	session, err := Session.Open(partnerID, productID, 30, 1)
	if err != nil {
		t.Fatalf("开启会话失败: %v", err)
	}
	return session
}

// sessionScanCount 读会话的当前扫码计数
func sessionScanCount(t *testing.T, sessionID uint) int64 {
	t.Helper()
	var session model.BindingSession
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		t.Fatalf("查询会话失败: %v", err)
	}
	return session.ScanCount
}

// timePtr 便捷取时间指针
func timePtr(v time.Time) *time.Time {
	return &v
}
