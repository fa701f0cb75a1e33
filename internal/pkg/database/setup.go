package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seal-system/internal/config"
	"seal-system/internal/model"
)

// DB 全局数据库连接
var DB *gorm.DB

// Setup 初始化数据库连接和迁移
func Setup() error {
	var err error

	// 获取配置
	cfg := config.GlobalConfig.Database

	// 按驱动建立连接，sqlite用于本地开发和测试
	switch cfg.Driver {
	case "sqlite":
		DB, err = gorm.Open(sqlite.Open(cfg.DBName), &gorm.Config{})
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
		)
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return Migrate(DB)
}

// Migrate 自动迁移所有模型
// bindings.token_id、binding_sessions.active_key、redirect_rules.fallback_key
// 上的唯一索引是并发正确性的根基，依赖模型标签在迁移时一并建立
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Partner{},
		&model.Product{},
		&model.Token{},
		&model.SealSheet{},
		&model.Binding{},
		&model.BindingSession{},
		&model.RedirectRule{},
		&model.AuditLog{},
		&model.OperatorLoginLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// LockForUpdate 行级写锁
// SQLite不支持FOR UPDATE(单写入者本身可串行化)，只在MySQL上加锁
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
