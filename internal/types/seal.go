package types

// LayoutResult 排版计算结果
type LayoutResult struct {
	Columns      int  `json:"columns"`       // 每页列数
	Rows         int  `json:"rows"`          // 每页行数
	PerSheet     int  `json:"per_sheet"`     // 每页标签数
	RotationUsed bool `json:"rotation_used"` // 是否旋转纸张方向
	TotalSheets  int  `json:"total_sheets"`  // 总页数
}

// Decorations 标签页装饰项配置
type Decorations struct {
	Title             string `json:"title"`              // 页眉标题
	VersionLabel      string `json:"version_label"`      // 模板版本标注
	FooterNote        string `json:"footer_note"`        // 页脚备注
	RegistrationMarks bool   `json:"registration_marks"` // 四角定位标记
	CenterCrosshair   bool   `json:"center_crosshair"`   // 中心十字线
}

// DefaultDecorations 装饰项默认值
func DefaultDecorations() Decorations {
	return Decorations{
		Title:             "SEAL SHEET",
		VersionLabel:      "v1",
		FooterNote:        "",
		RegistrationMarks: true,
		CenterCrosshair:   false,
	}
}

// RenderConfig 一次生成任务的完整渲染配置
// 配置连同防伪码集合的哈希一起写入审计日志，用于校验可复现性
type RenderConfig struct {
	DiameterMM      float64     `json:"diameter_mm"`      // 标签直径(mm)
	MarginMM        float64     `json:"margin_mm"`        // 页边距(mm)
	Paper           string      `json:"paper"`            // 纸张规格
	TemplateVersion string      `json:"template_version"` // 标签模板版本
	DPI             int         `json:"dpi"`              // 栅格化分辨率
	Decorations     Decorations `json:"decorations"`      // 装饰项
}
