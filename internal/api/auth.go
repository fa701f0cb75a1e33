package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"seal-system/internal/middleware"
	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 员工登录，运营与合作方员工共用
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	// 记录登录日志信息
	loginLog := model.OperatorLoginLog{
		Username:  req.Username,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		LoginTime: time.Now(),
		IsSuccess: false, // 默认为失败，成功时再更新
	}

	// 查询用户
	var user model.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		loginLog.FailReason = "用户不存在"
		database.DB.Create(&loginLog)

		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "用户名或密码错误",
		})
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		loginLog.FailReason = "密码错误"
		database.DB.Create(&loginLog)

		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "用户名或密码错误",
		})
		return
	}

	// 生成 token
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "生成token失败",
		})
		return
	}

	loginLog.IsSuccess = true
	loginLog.FailReason = ""
	database.DB.Create(&loginLog)

	OK(c, gin.H{
		"token":      token,
		"user_id":    user.ID,
		"nickname":   user.Nickname,
		"role":       user.Role,
		"partner_id": user.PartnerID,
	})
}
