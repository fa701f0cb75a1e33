package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

// OperatorAuth 运营人员认证中间件
// 铸码、生成打印、批次管理、跳转规则维护只对运营角色开放
func OperatorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从上下文中获取用户ID（JWT中间件已经验证过token并设置了userId）
		userId, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未登录",
			})
			c.Abort()
			return
		}

		// 查询用户
		var user model.User
		if err := database.DB.First(&user, userId).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "用户不存在或已被删除",
			})
			c.Abort()
			return
		}

		// 验证是否是运营人员
		if !user.IsOperator() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":  403,
				"msg":   "无运营权限",
				"error": "FORBIDDEN",
			})
			c.Abort()
			return
		}

		// 将用户信息保存到上下文
		c.Set("operator_user", user)
		c.Next()
	}
}
