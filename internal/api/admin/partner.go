package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"seal-system/internal/api"
	"seal-system/internal/model"
	"seal-system/internal/pkg/database"
)

// CreatePartnerRequest 创建合作方请求
type CreatePartnerRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
}

// CreatePartner 创建合作方
func CreatePartner(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	partner := model.Partner{
		Name:    req.Name,
		Contact: req.Contact,
		Status:  "active",
	}
	if err := database.DB.Create(&partner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "创建合作方失败",
		})
		return
	}

	api.OK(c, partner)
}

// GetPartners 查询合作方列表
func GetPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}

	db := database.DB.Model(&model.Partner{})
	if name := c.Query("name"); name != "" {
		db = db.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询合作方总数失败",
		})
		return
	}

	var partners []model.Partner
	if err := db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&partners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询合作方列表失败",
		})
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": partners,
	})
}

// CreateProductRequest 创建产品请求
type CreateProductRequest struct {
	Name      string `json:"name" binding:"required"`
	SKU       string `json:"sku"`
	PartnerID uint   `json:"partner_id" binding:"required"`
}

// CreateProduct 创建产品
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	// 产品必须挂在存在的合作方下
	var partner model.Partner
	if err := database.DB.First(&partner, req.PartnerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "合作方不存在",
		})
		return
	}

	product := model.Product{
		Name:      req.Name,
		SKU:       req.SKU,
		PartnerID: req.PartnerID,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "创建产品失败",
		})
		return
	}

	api.OK(c, product)
}

// GetProducts 查询产品列表
func GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}

	db := database.DB.Model(&model.Product{})
	if partnerID, _ := strconv.Atoi(c.Query("partner_id")); partnerID > 0 {
		db = db.Where("partner_id = ?", partnerID)
	}
	if name := c.Query("name"); name != "" {
		db = db.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询产品总数失败",
		})
		return
	}

	var products []model.Product
	if err := db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "查询产品列表失败",
		})
		return
	}

	api.OK(c, gin.H{
		"total": total,
		"items": products,
	})
}

// CreateUserRequest 创建账号请求
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Nickname  string `json:"nickname"`
	Role      string `json:"role" binding:"required"`
	PartnerID *uint  `json:"partner_id"`
}

// CreateUser 创建员工账号
// 合作方员工必须指定所属合作方，运营账号不挂合作方
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if req.Role != model.RoleOperator && req.Role != model.RolePartner {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "角色不合法",
		})
		return
	}
	if req.Role == model.RolePartner && req.PartnerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "合作方员工必须指定合作方",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "密码加密失败",
		})
		return
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashed),
		Nickname: req.Nickname,
		Role:     req.Role,
	}
	if req.Role == model.RolePartner {
		user.PartnerID = req.PartnerID
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "创建账号失败",
		})
		return
	}

	api.OK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}
