package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		ExpireTime int    `yaml:"expire_time"`
	} `yaml:"jwt"`

	Log struct {
		Level      string `yaml:"level"`       // 日志级别: debug, info, warn, error
		Format     string `yaml:"format"`      // 日志格式: json, text
		Output     string `yaml:"output"`      // 输出方式: console, file, both
		FilePath   string `yaml:"file_path"`   // 日志文件路径
		MaxSize    int    `yaml:"max_size"`    // 单个日志文件最大大小(MB)
		MaxBackups int    `yaml:"max_backups"` // 保留的旧日志文件数量
		MaxAge     int    `yaml:"max_age"`     // 日志文件保留天数
		Compress   bool   `yaml:"compress"`    // 是否压缩旧日志文件
	} `yaml:"log"`

	Seal struct {
		VerifyBaseURL     string  `yaml:"verify_base_url"`    // 防伪验证地址前缀，二维码内容为 {verify_base_url}/s/{code}
		DefaultDiameterMM float64 `yaml:"default_diameter_mm"` // 防伪标签默认直径(mm)
		DefaultMarginMM   float64 `yaml:"default_margin_mm"`   // 打印页默认边距(mm)
		DefaultPaper      string  `yaml:"default_paper"`       // 默认纸张: A4, A3, Letter
		DPI               int     `yaml:"dpi"`                 // 打印输出分辨率
		MaxTokensPerBatch int     `yaml:"max_tokens_per_batch"` // 单批次铸造上限，不能超过编译期硬上限
		SessionDuration   int     `yaml:"session_duration_minutes"` // 扫码绑定会话默认时长(分钟)
	} `yaml:"seal"`
}

var GlobalConfig *Config

func Load() (*Config, error) {
	if GlobalConfig != nil {
		return GlobalConfig, nil
	}

	// 获取配置文件路径
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		// 如果环境变量中没有配置路径，则使用默认路径
		// 获取当前工作目录
		workDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("获取工作目录失败: %v", err)
		}

		// 尝试默认配置路径
		configPath = filepath.Join(workDir, "config", "config.yaml")

		// 如果默认配置不存在，尝试根目录下的配置文件
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = filepath.Join(workDir, "config.yaml")
		}
	}

	// 读取配置文件
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败 %s: %v", configPath, err)
	}

	// 解析配置文件
	config := &Config{}
	err = yaml.Unmarshal(configFile, config)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	applyDefaults(config)

	GlobalConfig = config
	return config, nil
}

// applyDefaults 填充缺省配置
func applyDefaults(config *Config) {
	// 日志配置默认值
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Log.Output == "" {
		config.Log.Output = "console"
	}
	if config.Log.FilePath == "" {
		config.Log.FilePath = "logs/app.log"
	}
	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = 100 // 100MB
	}
	if config.Log.MaxBackups == 0 {
		config.Log.MaxBackups = 3
	}
	if config.Log.MaxAge == 0 {
		config.Log.MaxAge = 28 // 28天
	}

	// 数据库默认使用MySQL
	if config.Database.Driver == "" {
		config.Database.Driver = "mysql"
	}

	// 防伪标签配置默认值
	if config.Seal.VerifyBaseURL == "" {
		config.Seal.VerifyBaseURL = "https://verify.example.com"
	}
	if config.Seal.DefaultDiameterMM == 0 {
		config.Seal.DefaultDiameterMM = 30
	}
	if config.Seal.DefaultMarginMM == 0 {
		config.Seal.DefaultMarginMM = 10
	}
	if config.Seal.DefaultPaper == "" {
		config.Seal.DefaultPaper = "A4"
	}
	if config.Seal.DPI == 0 {
		config.Seal.DPI = 300
	}
	if config.Seal.MaxTokensPerBatch == 0 {
		config.Seal.MaxTokensPerBatch = 1000
	}
	if config.Seal.SessionDuration == 0 {
		config.Seal.SessionDuration = 30 // 30分钟
	}
}

// SetupTest 测试环境下直接注入配置，跳过文件加载
func SetupTest() *Config {
	config := &Config{}
	config.Database.Driver = "sqlite"
	config.Database.DBName = "file::memory:?cache=shared"
	config.JWT.Secret = "test-secret"
	config.JWT.ExpireTime = 3600
	applyDefaults(config)
	GlobalConfig = config
	return config
}
