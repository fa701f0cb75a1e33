package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seal-system/internal/service"
)

// VerifyToken 公开验证接口
// 信任边界：只展示真实状态，永远不应用任何跳转规则
func VerifyToken(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "缺少防伪码",
		})
		return
	}

	result, err := service.Verify.Check(code)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, result)
}

// ScanEntry 扫码入口
// 消费者扫描标签上的二维码进入这里：按规则优先级解析跳转目标，
// 没有命中任何规则时落到验证页
func ScanEntry(c *gin.Context) {
	code := c.Param("code")
	token, err := service.Token.GetByCode(code)
	if err != nil {
		Fail(c, err)
		return
	}

	// 扫码计数，失败不影响跳转
	_ = service.Verify.CountScan(token.ID)

	rule, err := service.Redirect.Resolve(token)
	if err != nil {
		Fail(c, err)
		return
	}

	if rule != nil {
		c.Redirect(http.StatusFound, rule.TargetURL)
		return
	}

	c.Redirect(http.StatusFound, "/api/v1/verify/"+code)
}
