package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

// PartnerAuth 合作方员工认证中间件
// 扫码绑定接口只对绑定了合作方的账号开放，partnerId写入上下文供处理函数取用
func PartnerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未登录",
			})
			c.Abort()
			return
		}

		var user model.User
		if err := database.DB.First(&user, userId).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "用户不存在或已被删除",
			})
			c.Abort()
			return
		}

		if user.Role != model.RolePartner || user.PartnerID == nil {
			c.JSON(http.StatusForbidden, gin.H{
				"code":  403,
				"msg":   "当前账号未关联合作方",
				"error": "FORBIDDEN",
			})
			c.Abort()
			return
		}

		c.Set("partnerId", *user.PartnerID)
		c.Next()
	}
}

// GetPartnerID 从上下文中取合作方ID
func GetPartnerID(c *gin.Context) uint {
	if v, exists := c.Get("partnerId"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUserID 从上下文中取用户ID
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get("userId"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
