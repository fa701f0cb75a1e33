package service

import (
	"bytes"
	"fmt"
	"testing"

	"seal-system/internal/types"
)

// 导出链路不依赖数据库，直接喂合成的防伪码
func exportFixture(t *testing.T, n int) ([]string, *types.LayoutResult, types.RenderConfig) {
	t.Helper()
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		codes = append(codes, fmt.Sprintf("SLexport%032d", i))
	}
	cfg := DefaultRenderConfig()
	cfg.DPI = 96 // 测试用低分辨率，不影响布局语义
	layout, err := Layout.Compute(cfg.DiameterMM, cfg.Paper, cfg.MarginMM, n)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return codes, layout, cfg
}

func TestRasterizeSheetsPageCount(t *testing.T) {
	resetTables(t)

	// A4/30mm/10mm边距每页54枚，55枚占两页
	codes, layout, cfg := exportFixture(t, 55)
	pages, err := Export.RasterizeSheets(codes, layout, cfg)
	if err != nil {
		t.Fatalf("RasterizeSheets() error = %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("页数 = %d, want 2", len(pages))
	}
	for i, page := range pages {
		if len(page) == 0 {
			t.Errorf("第%d页为空", i+1)
		}
		if !bytes.HasPrefix(page, []byte("\x89PNG")) {
			t.Errorf("第%d页不是PNG", i+1)
		}
	}
}

// 同样输入两次导出的PDF逐字节一致
func TestExportPDFReproducible(t *testing.T) {
	resetTables(t)

	codes, layout, cfg := exportFixture(t, 3)

	first, err := Export.ExportPDF(codes, layout, cfg)
	if err != nil {
		t.Fatalf("第一次导出失败: %v", err)
	}
	second, err := Export.ExportPDF(codes, layout, cfg)
	if err != nil {
		t.Fatalf("第二次导出失败: %v", err)
	}

	if !bytes.HasPrefix(first, []byte("%PDF")) {
		t.Error("输出不是PDF")
	}
	if !bytes.Equal(first, second) {
		t.Error("两次导出的PDF不一致")
	}
}

func TestRasterizeSheetsInvalidLayout(t *testing.T) {
	resetTables(t)

	codes, layout, cfg := exportFixture(t, 1)
	layout.PerSheet = 0
	if _, err := Export.RasterizeSheets(codes, layout, cfg); err == nil {
		t.Error("无效排版结果应当报错")
	}
}
