package service

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"seal-system/internal/types"
)

var Export = new(ExportService)

type ExportService struct{}

// PDF元数据使用固定时间戳，同样输入的导出结果才能逐字节一致
var fixedPDFDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ExportPDF 把排版结果导出为多页可打印PDF
// 每页先栅格化为PNG再装订，页序与排版页序一致；
// 栅格化只消费排版结果中的几何参数，不参与任何排版决策
func (s *ExportService) ExportPDF(codes []string, layout *types.LayoutResult, cfg types.RenderConfig) ([]byte, error) {
	pages, err := s.RasterizeSheets(codes, layout, cfg)
	if err != nil {
		return nil, err
	}

	orientation := "P"
	if layout.RotationUsed {
		orientation = "L"
	}

	pageWidthMM, pageHeightMM, err := Layout.PageSizeMM(cfg.Paper, layout.RotationUsed)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New(orientation, "mm", cfg.Paper, "")
	pdf.SetCreationDate(fixedPDFDate)
	pdf.SetModificationDate(fixedPDFDate)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		name := fmt.Sprintf("sheet-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, pageWidthMM, pageHeightMM, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF输出失败: %v", err)
	}
	return buf.Bytes(), nil
}

// RasterizeSheets 按排版结果逐页栅格化，返回PNG字节序列
func (s *ExportService) RasterizeSheets(codes []string, layout *types.LayoutResult, cfg types.RenderConfig) ([][]byte, error) {
	if layout.PerSheet <= 0 {
		return nil, fmt.Errorf("排版结果无效: 每页容量为0")
	}

	pageWidthMM, pageHeightMM, err := Layout.PageSizeMM(cfg.Paper, layout.RotationUsed)
	if err != nil {
		return nil, err
	}

	pages := make([][]byte, 0, layout.TotalSheets)
	for page := 0; page < layout.TotalSheets; page++ {
		start := page * layout.PerSheet
		end := start + layout.PerSheet
		if end > len(codes) {
			end = len(codes)
		}

		data, err := s.rasterizeOne(codes[start:end], layout, cfg, pageWidthMM, pageHeightMM, page+1)
		if err != nil {
			return nil, err
		}
		pages = append(pages, data)
	}
	return pages, nil
}

// rasterizeOne 栅格化单页，布局规则与矢量排版完全相同
func (s *ExportService) rasterizeOne(codes []string, layout *types.LayoutResult, cfg types.RenderConfig, pageWidthMM, pageHeightMM float64, pageNo int) ([]byte, error) {
	mmToPx := float64(cfg.DPI) / 25.4
	width := int(pageWidthMM * mmToPx)
	height := int(pageHeightMM * mmToPx)
	margin := cfg.MarginMM * mmToPx
	pitch := cfg.DiameterMM * mmToPx

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, code := range codes {
		col := i % layout.Columns
		row := i / layout.Columns
		x := margin + float64(col)*pitch
		y := margin + float64(row)*pitch
		if err := s.drawSealRaster(dc, x, y, pitch, code); err != nil {
			return nil, err
		}
	}

	s.drawDecorationsRaster(dc, cfg.Decorations, float64(width), float64(height), margin, pageNo)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("PNG编码失败: %v", err)
	}
	return buf.Bytes(), nil
}

// drawSealRaster 栅格化单枚标签
func (s *ExportService) drawSealRaster(dc *gg.Context, x, y, size float64, code string) error {
	cx := x + size/2
	cy := y + size/2

	dc.SetRGB(0, 0, 0)

	// 外圈裁切线与内圈
	dc.SetLineWidth(size / 100)
	dc.DrawCircle(cx, cy, size/2-size/100)
	dc.Stroke()
	dc.SetLineWidth(size / 300)
	dc.DrawCircle(cx, cy, size/2-size/30)
	dc.Stroke()

	// 二维码，skip2直接输出指定边长的位图
	qrSide := int(size * qrAreaRatio)
	qr, err := qrcode.New(Render.QRPayload(code), qrcode.Medium)
	if err != nil {
		return fmt.Errorf("二维码生成失败: %v", err)
	}
	img := qr.Image(qrSide)
	dc.DrawImage(img, int(cx)-qrSide/2, int(cy)-qrSide/2)

	// 装饰点阵，与矢量输出共用同一组确定性落点
	dotR := size / 120
	for _, dot := range sealPatternDots(code) {
		dc.DrawCircle(cx+dot.DX*size, cy+dot.DY*size, dotR)
		dc.Fill()
	}

	// 码末8位
	short := code
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	dc.DrawStringAnchored(short, cx, cy+size*qrAreaRatio/2+size/10, 0.5, 0.5)

	return nil
}

// drawDecorationsRaster 页面装饰项，与矢量页保持同样的内容和位置
func (s *ExportService) drawDecorationsRaster(dc *gg.Context, deco types.Decorations, width, height, margin float64, pageNo int) {
	dc.SetRGB(0, 0, 0)

	if deco.Title != "" {
		dc.DrawStringAnchored(deco.Title, width/2, margin*2/3, 0.5, 0.5)
	}
	if deco.VersionLabel != "" {
		dc.DrawStringAnchored(deco.VersionLabel, width-margin, margin*2/3, 1, 0.5)
	}

	footer := fmt.Sprintf("Page %d", pageNo)
	if deco.FooterNote != "" {
		footer = deco.FooterNote + "  " + footer
	}
	dc.DrawStringAnchored(footer, width/2, height-margin/3, 0.5, 0.5)

	if deco.RegistrationMarks {
		markLen := margin * 0.4
		dc.SetLineWidth(1)
		corners := [][2]float64{
			{margin / 2, margin / 2},
			{width - margin/2, margin / 2},
			{margin / 2, height - margin/2},
			{width - margin/2, height - margin/2},
		}
		for _, c := range corners {
			dc.DrawLine(c[0]-markLen/2, c[1], c[0]+markLen/2, c[1])
			dc.DrawLine(c[0], c[1]-markLen/2, c[0], c[1]+markLen/2)
		}
		dc.Stroke()
	}

	if deco.CenterCrosshair {
		crossLen := margin * 0.6
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.SetLineWidth(1)
		dc.DrawLine(width/2-crossLen/2, height/2, width/2+crossLen/2, height/2)
		dc.DrawLine(width/2, height/2-crossLen/2, width/2, height/2+crossLen/2)
		dc.Stroke()
	}
}
