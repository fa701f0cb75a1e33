package service

import (
	"fmt"
	"math"

	"seal-system/internal/pkg/apperr"
	"seal-system/internal/types"
)

var Layout = new(LayoutService)

type LayoutService struct{}

// PaperSize 纸张尺寸(mm)，宽x高为纵向摆放
type PaperSize struct {
	WidthMM  float64
	HeightMM float64
}

// 支持的纸张规格
var paperSizes = map[string]PaperSize{
	"A4":     {210, 297},
	"A3":     {297, 420},
	"Letter": {215.9, 279.4},
}

// GetPaperSize 按名称查找纸张规格
func GetPaperSize(name string) (PaperSize, error) {
	size, ok := paperSizes[name]
	if !ok {
		return PaperSize{}, apperr.Validation(fmt.Sprintf("不支持的纸张规格: %s", name))
	}
	return size, nil
}

// Compute 计算排版
// 分别按不旋转/旋转两种方向求每页容量，取容量大的方向；
// 容量相同时固定选不旋转，保证同样输入的排版结果完全一致
func (s *LayoutService) Compute(diameterMM float64, paper string, marginMM float64, n int) (*types.LayoutResult, error) {
	if diameterMM <= 0 {
		return nil, apperr.Validation("标签直径必须大于0")
	}
	if marginMM < 0 {
		return nil, apperr.Validation("页边距不能为负")
	}
	if n < 0 {
		return nil, apperr.Validation("标签数量不能为负")
	}

	size, err := GetPaperSize(paper)
	if err != nil {
		return nil, err
	}

	// 不旋转
	cols, rows := gridCapacity(size.WidthMM, size.HeightMM, marginMM, diameterMM)
	// 旋转90度
	rCols, rRows := gridCapacity(size.HeightMM, size.WidthMM, marginMM, diameterMM)

	result := &types.LayoutResult{
		Columns:      cols,
		Rows:         rows,
		PerSheet:     cols * rows,
		RotationUsed: false,
	}

	// 旋转后容量严格更大才采用旋转方向
	if rCols*rRows > result.PerSheet {
		result.Columns = rCols
		result.Rows = rRows
		result.PerSheet = rCols * rRows
		result.RotationUsed = true
	}

	// 两种方向都放不下任何标签
	if result.PerSheet == 0 {
		return nil, apperr.LayoutError(
			fmt.Sprintf("标签直径%.1fmm超出%s纸张可用区域，无法排版", diameterMM, paper))
	}

	if n == 0 {
		result.TotalSheets = 0
	} else {
		result.TotalSheets = int(math.Ceil(float64(n) / float64(result.PerSheet)))
	}

	return result, nil
}

// gridCapacity 给定纸张方向下的网格容量
func gridCapacity(widthMM, heightMM, marginMM, diameterMM float64) (cols, rows int) {
	usableWidth := widthMM - 2*marginMM
	usableHeight := heightMM - 2*marginMM
	if usableWidth < diameterMM || usableHeight < diameterMM {
		return 0, 0
	}
	cols = int(math.Floor(usableWidth / diameterMM))
	rows = int(math.Floor(usableHeight / diameterMM))
	return cols, rows
}

// PageSizeMM 按排版结果返回实际页面尺寸(宽, 高)
func (s *LayoutService) PageSizeMM(paper string, rotated bool) (float64, float64, error) {
	size, err := GetPaperSize(paper)
	if err != nil {
		return 0, 0, err
	}
	if rotated {
		return size.HeightMM, size.WidthMM, nil
	}
	return size.WidthMM, size.HeightMM, nil
}
