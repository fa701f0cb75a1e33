package service

import (
	"math"
	"strings"
	"testing"
)

func TestQRPayload(t *testing.T) {
	got := Render.QRPayload("SLabc123")
	want := "https://verify.example.com/s/SLabc123"
	if got != want {
		t.Errorf("QRPayload() = %q, want %q", got, want)
	}
}

func TestRenderSealDeterministic(t *testing.T) {
	cfg := DefaultRenderConfig()

	first, err := Render.RenderSeal("SLdeterministic001", cfg)
	if err != nil {
		t.Fatalf("RenderSeal() error = %v", err)
	}
	second, err := Render.RenderSeal("SLdeterministic001", cfg)
	if err != nil {
		t.Fatalf("RenderSeal() error = %v", err)
	}
	if first != second {
		t.Error("同一个码两次渲染的SVG不一致")
	}

	other, err := Render.RenderSeal("SLdeterministic002", cfg)
	if err != nil {
		t.Fatalf("RenderSeal() error = %v", err)
	}
	if first == other {
		t.Error("不同码渲染出了相同的SVG")
	}
}

func TestRenderSealContent(t *testing.T) {
	cfg := DefaultRenderConfig()
	svg, err := Render.RenderSeal("SLcontentcheck00001234", cfg)
	if err != nil {
		t.Fatalf("RenderSeal() error = %v", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(svg), "<?xml") {
		t.Error("输出不是SVG文档")
	}
	// 标签下沿标注码的末8位
	if !strings.Contains(svg, "00001234") {
		t.Error("SVG中缺少码末8位标注")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("SVG中缺少圆形元素")
	}
	if !strings.Contains(svg, "<rect") {
		t.Error("SVG中缺少二维码模块")
	}
}

func TestRenderSealInvalidDiameter(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.DiameterMM = 0
	if _, err := Render.RenderSeal("SLx", cfg); err == nil {
		t.Error("直径为零时应当报错")
	}
}

// 装饰点阵必须完全落在二维码区域之外、标签外沿之内
func TestSealPatternDotsStayOutsideQRZone(t *testing.T) {
	codes := []string{"SLpattern01", "SLpattern02", "SLpattern03"}
	for _, code := range codes {
		dots := sealPatternDots(code)
		if len(dots) == 0 {
			t.Fatalf("%s: 点阵为空", code)
		}
		for i, dot := range dots {
			inQRZone := math.Abs(dot.DX) <= qrAreaRatio/2+0.01 &&
				math.Abs(dot.DY) <= qrAreaRatio/2+0.01
			if inQRZone {
				t.Errorf("%s: 第%d个装饰点(%f, %f)侵入二维码区域", code, i, dot.DX, dot.DY)
			}
			if r := math.Hypot(dot.DX, dot.DY); r > 0.5 {
				t.Errorf("%s: 第%d个装饰点(%f, %f)超出标签外沿", code, i, dot.DX, dot.DY)
			}
		}
	}
}

func TestSealPatternDotsDeterministic(t *testing.T) {
	first := sealPatternDots("SLsame")
	second := sealPatternDots("SLsame")
	if len(first) != len(second) {
		t.Fatalf("两次生成的点数不同: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("第%d个点不一致: %+v vs %+v", i, first[i], second[i])
		}
	}
}
