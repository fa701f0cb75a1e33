package service

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"seal-system/internal/types"
)

var Compose = new(ComposeService)

type ComposeService struct{}

// ComposeSheets 把标签按排版结果摆进一页或多页矢量图
// 固定按行优先(从左到右、从上到下)摆放，间距等于直径；
// 最后一页不足整页时不重排不居中，任何一页都能凭页码原样重印
func (s *ComposeService) ComposeSheets(codes []string, layout *types.LayoutResult, cfg types.RenderConfig) ([]string, error) {
	if layout.PerSheet <= 0 {
		return nil, fmt.Errorf("排版结果无效: 每页容量为0")
	}

	pageWidthMM, pageHeightMM, err := Layout.PageSizeMM(cfg.Paper, layout.RotationUsed)
	if err != nil {
		return nil, err
	}

	sheets := make([]string, 0, layout.TotalSheets)
	for page := 0; page < layout.TotalSheets; page++ {
		start := page * layout.PerSheet
		end := start + layout.PerSheet
		if end > len(codes) {
			end = len(codes)
		}

		sheet, err := s.composeOne(codes[start:end], layout, cfg, pageWidthMM, pageHeightMM, page+1)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

// composeOne 渲染单页
func (s *ComposeService) composeOne(codes []string, layout *types.LayoutResult, cfg types.RenderConfig, pageWidthMM, pageHeightMM float64, pageNo int) (string, error) {
	width := int(pageWidthMM * svgUnitsPerMM)
	height := int(pageHeightMM * svgUnitsPerMM)
	margin := int(cfg.MarginMM * svgUnitsPerMM)
	pitch := int(cfg.DiameterMM * svgUnitsPerMM)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	// 标签网格
	for i, code := range codes {
		col := i % layout.Columns
		row := i / layout.Columns
		x := margin + col*pitch
		y := margin + row*pitch
		if err := Render.drawSeal(canvas, x, y, code, cfg); err != nil {
			return "", err
		}
	}

	s.drawDecorations(canvas, cfg, width, height, margin, pageNo)

	canvas.End()
	return buf.String(), nil
}

// drawDecorations 页面装饰项：标题、版本标注、页脚、定位标记、中心十字线
func (s *ComposeService) drawDecorations(canvas *svg.SVG, cfg types.RenderConfig, width, height, margin, pageNo int) {
	deco := cfg.Decorations
	fontSize := 30 // 3mm

	if deco.Title != "" {
		canvas.Text(width/2, margin*2/3, deco.Title,
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:#000000", fontSize))
	}
	if deco.VersionLabel != "" {
		canvas.Text(width-margin, margin*2/3, deco.VersionLabel,
			fmt.Sprintf("text-anchor:end;font-family:sans-serif;font-size:%dpx;fill:#000000", fontSize*2/3))
	}

	// 页脚：备注 + 页码
	footer := fmt.Sprintf("Page %d", pageNo)
	if deco.FooterNote != "" {
		footer = deco.FooterNote + "  " + footer
	}
	canvas.Text(width/2, height-margin/3, footer,
		fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:#000000", fontSize*2/3))

	// 四角定位标记，裁切对位用
	if deco.RegistrationMarks {
		markLen := 40 // 4mm
		corners := [][2]int{
			{margin / 2, margin / 2},
			{width - margin/2, margin / 2},
			{margin / 2, height - margin/2},
			{width - margin/2, height - margin/2},
		}
		for _, c := range corners {
			canvas.Line(c[0]-markLen/2, c[1], c[0]+markLen/2, c[1], "stroke:#000000;stroke-width:2")
			canvas.Line(c[0], c[1]-markLen/2, c[0], c[1]+markLen/2, "stroke:#000000;stroke-width:2")
		}
	}

	// 中心十字线
	if deco.CenterCrosshair {
		crossLen := 60 // 6mm
		canvas.Line(width/2-crossLen/2, height/2, width/2+crossLen/2, height/2, "stroke:#999999;stroke-width:1")
		canvas.Line(width/2, height/2-crossLen/2, width/2, height/2+crossLen/2, "stroke:#999999;stroke-width:1")
	}
}
