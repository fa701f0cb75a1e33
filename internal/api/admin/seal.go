package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/middleware"
	"seal-system/internal/service"
	"seal-system/internal/types"
)

// GenerateSealsRequest 生成请求，quantity与tokens二选一
type GenerateSealsRequest struct {
	Quantity   int      `json:"quantity"`
	EntityType string   `json:"entity_type"`
	EntityID   uint     `json:"entity_id"`
	Tokens     []string `json:"tokens"`

	DiameterMM      float64           `json:"diameter_mm"`
	MarginMM        float64           `json:"margin_mm"`
	Paper           string            `json:"paper"`
	TemplateVersion string            `json:"template_version"`
	Decorations     *types.Decorations `json:"decorations"`
}

// renderConfig 把请求中的覆盖项合并进默认渲染配置
func (r *GenerateSealsRequest) renderConfig() types.RenderConfig {
	cfg := service.DefaultRenderConfig()
	if r.DiameterMM > 0 {
		cfg.DiameterMM = r.DiameterMM
	}
	if r.MarginMM > 0 {
		cfg.MarginMM = r.MarginMM
	}
	if r.Paper != "" {
		cfg.Paper = r.Paper
	}
	if r.TemplateVersion != "" {
		cfg.TemplateVersion = r.TemplateVersion
	}
	if r.Decorations != nil {
		cfg.Decorations = *r.Decorations
	}
	return cfg
}

func (r *GenerateSealsRequest) input() service.GenerateInput {
	return service.GenerateInput{
		Quantity:   r.Quantity,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Codes:      r.Tokens,
	}
}

// GenerateSeals 生成标签矢量图与整页排版
func GenerateSeals(c *gin.Context) {
	var req GenerateSealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := service.Generate.Generate(req.input(), req.renderConfig(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	setLayoutHeaders(c, &result.Layout)
	api.OK(c, result)
}

// GeneratePDF 生成可打印PDF文档
func GeneratePDF(c *gin.Context) {
	var req GenerateSealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userID := middleware.GetUserID(c)
	data, result, err := service.Generate.GeneratePDF(req.input(), req.renderConfig(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	setLayoutHeaders(c, &result.Layout)
	filename := "seals.pdf"
	if result.SheetNo != "" {
		filename = result.SheetNo + ".pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// PreviewLayout 排版预览
// 排版结果同时写进JSON响应和X-Layout-*响应头，非JSON调用方读头即可
func PreviewLayout(c *gin.Context) {
	diameter, _ := strconv.ParseFloat(c.DefaultQuery("diameter_mm", "0"), 64)
	margin, _ := strconv.ParseFloat(c.DefaultQuery("margin_mm", "-1"), 64)
	n, _ := strconv.Atoi(c.DefaultQuery("count", "0"))
	paper := c.Query("paper")

	cfg := service.DefaultRenderConfig()
	if diameter <= 0 {
		diameter = cfg.DiameterMM
	}
	if margin < 0 {
		margin = cfg.MarginMM
	}
	if paper == "" {
		paper = cfg.Paper
	}

	layout, err := service.Layout.Compute(diameter, paper, margin, n)
	if err != nil {
		api.Fail(c, err)
		return
	}

	setLayoutHeaders(c, layout)
	api.OK(c, layout)
}

// setLayoutHeaders 排版结果响应头
func setLayoutHeaders(c *gin.Context, layout *types.LayoutResult) {
	c.Header("X-Layout-Columns", strconv.Itoa(layout.Columns))
	c.Header("X-Layout-Rows", strconv.Itoa(layout.Rows))
	c.Header("X-Layout-Per-Sheet", strconv.Itoa(layout.PerSheet))
	c.Header("X-Layout-Rotated", strconv.FormatBool(layout.RotationUsed))
	c.Header("X-Layout-Total-Sheets", strconv.Itoa(layout.TotalSheets))
}
