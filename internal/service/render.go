package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	svg "github.com/ajstarks/svgo"
	qrcode "github.com/skip2/go-qrcode"

	"seal-system/internal/config"
	"seal-system/internal/pkg/apperr"
	"seal-system/internal/types"
)

var Render = new(RenderService)

type RenderService struct{}

// SVG坐标采用0.1mm为单位，svgo只接受整数坐标
const svgUnitsPerMM = 10

// 二维码区域占标签直径的比例，周围留出静区，装饰纹样不得侵入
const qrAreaRatio = 0.55

// QRPayload 防伪码对应的二维码内容
func (s *RenderService) QRPayload(code string) string {
	return fmt.Sprintf("%s/s/%s", config.GlobalConfig.Seal.VerifyBaseURL, code)
}

// RenderSeal 渲染单个防伪标签的矢量图
func (s *RenderService) RenderSeal(code string, cfg types.RenderConfig) (string, error) {
	size := int(cfg.DiameterMM * svgUnitsPerMM)
	if size <= 0 {
		return "", apperr.Validation("标签直径必须大于0")
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(size, size)
	if err := s.drawSeal(canvas, 0, 0, code, cfg); err != nil {
		return "", err
	}
	canvas.End()
	return buf.String(), nil
}

// drawSeal 在画布(x, y)处绘制一枚标签，供单枚渲染和整页排版共用
func (s *RenderService) drawSeal(canvas *svg.SVG, x, y int, code string, cfg types.RenderConfig) error {
	size := int(cfg.DiameterMM * svgUnitsPerMM)
	cx := x + size/2
	cy := y + size/2
	radius := size / 2

	// 外圈，即标签裁切线
	canvas.Circle(cx, cy, radius-2, "fill:#ffffff;stroke:#000000;stroke-width:3")
	canvas.Circle(cx, cy, radius-10, "fill:none;stroke:#000000;stroke-width:1")

	// 二维码矩阵，skip2返回的位图自带4模块静区
	qr, err := qrcode.New(s.QRPayload(code), qrcode.Medium)
	if err != nil {
		return apperr.Validation(fmt.Sprintf("二维码生成失败: %v", err))
	}
	bitmap := qr.Bitmap()
	modules := len(bitmap)
	qrSide := int(float64(size) * qrAreaRatio)
	qrX := cx - qrSide/2
	qrY := cy - qrSide/2

	for row := 0; row < modules; row++ {
		for col := 0; col < modules; col++ {
			if !bitmap[row][col] {
				continue
			}
			// 用整数除法定位模块边界，保证同样输入输出逐字节一致
			x0 := qrX + col*qrSide/modules
			y0 := qrY + row*qrSide/modules
			x1 := qrX + (col+1)*qrSide/modules
			y1 := qrY + (row+1)*qrSide/modules
			canvas.Rect(x0, y0, x1-x0, y1-y0, "fill:#000000")
		}
	}

	// 装饰纹样：由防伪码哈希决定的环形点阵，只落在二维码区域之外的环带内
	s.drawPattern(canvas, cx, cy, size, code)

	// 标签下沿标注码的末8位，便于人工核对
	short := code
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	textY := cy + qrSide/2 + size/10
	canvas.Text(cx, textY, short,
		fmt.Sprintf("text-anchor:middle;font-family:monospace;font-size:%dpx;fill:#000000", size/14))

	return nil
}

// drawPattern 环形装饰点阵
func (s *RenderService) drawPattern(canvas *svg.SVG, cx, cy, size int, code string) {
	dotR := size / 120
	if dotR < 1 {
		dotR = 1
	}
	for _, dot := range sealPatternDots(code) {
		px := cx + int(dot.DX*float64(size))
		py := cy + int(dot.DY*float64(size))
		canvas.Circle(px, py, dotR, "fill:#000000")
	}
}

// PatternDot 装饰点，坐标为相对标签中心的偏移，单位为直径的比例
type PatternDot struct {
	DX float64
	DY float64
}

// sealPatternDots 生成一枚标签的装饰点阵
// 随机源的种子取自防伪码的sha256，同一个码的纹样永远相同，
// 矢量与栅格两条输出路径共用，保证两种产物纹样一致；
// 环带内径大于二维码区域的半对角线，纹样不会破坏扫码
func sealPatternDots(code string) []PatternDot {
	sum := sha256.Sum256([]byte(code))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rnd := rand.New(rand.NewSource(seed))

	// 二维码区域半对角线，加少许间隙
	innerR := qrAreaRatio*math.Sqrt2/2 + 0.02
	outerR := 0.5 - 0.06

	dots := make([]PatternDot, 0, 64)
	for i := 0; i < 64; i++ {
		angle := rnd.Float64() * 2 * math.Pi
		r := innerR + rnd.Float64()*(outerR-innerR)
		dx := r * math.Cos(angle)
		dy := r * math.Sin(angle)

		// 双保险：落点若仍与二维码区域重叠则丢弃
		if math.Abs(dx) <= qrAreaRatio/2+0.01 && math.Abs(dy) <= qrAreaRatio/2+0.01 {
			continue
		}
		dots = append(dots, PatternDot{DX: dx, DY: dy})
	}
	return dots
}
