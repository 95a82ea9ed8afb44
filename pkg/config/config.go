package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// DatasetConfig 数据集配置
type DatasetConfig struct {
	Orders        int    `mapstructure:"orders"`         // 生成订单数
	Seed          int64  `mapstructure:"seed"`           // 随机种子，0 表示派生自当前时间
	OutputDir     string `mapstructure:"output_dir"`     // 导出目录
	Filename      string `mapstructure:"filename"`       // 导出文件名
	ReferenceDate string `mapstructure:"reference_date"` // RFC3339 参考时钟，空表示当前时间
}

// GeneratorConfig 生成管线配置
type GeneratorConfig struct {
	Shards     int `mapstructure:"shards"`      // 按客户取模的分片数
	BufferSize int `mapstructure:"buffer_size"` // Channel 缓冲大小
}

// CatalogConfig 注册表配置
type CatalogConfig struct {
	Customers  int                 `mapstructure:"customers"`  // 客户数
	Categories map[string][]string `mapstructure:"categories"` // 品类 → 条目列表，空则用内置目录
}

// 默认值常量
const (
	DefaultOrders     = 100000
	DefaultOutputDir  = "generated_data"
	DefaultFilename   = "ecommerce_data.csv"
	DefaultShards     = 4
	DefaultBufferSize = 256
	DefaultCustomers  = 500
)

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadDefault 返回内置默认配置（快速验证和测试用）
func LoadDefault() *Config {
	cfg := &Config{
		App: AppConfig{
			Name:     "shopsynth",
			Env:      "dev",
			LogLevel: "info",
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 填充缺省值
func (c *Config) applyDefaults() {
	if c.Dataset.Orders == 0 {
		c.Dataset.Orders = DefaultOrders
	}
	if c.Dataset.OutputDir == "" {
		c.Dataset.OutputDir = DefaultOutputDir
	}
	if c.Dataset.Filename == "" {
		c.Dataset.Filename = DefaultFilename
	}
	if c.Generator.Shards == 0 {
		c.Generator.Shards = DefaultShards
	}
	if c.Generator.BufferSize == 0 {
		c.Generator.BufferSize = DefaultBufferSize
	}
	if c.Catalog.Customers == 0 {
		c.Catalog.Customers = DefaultCustomers
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Dataset.Orders <= 0 {
		return fmt.Errorf("dataset.orders must be positive")
	}
	if c.Generator.Shards <= 0 {
		return fmt.Errorf("generator.shards must be positive")
	}
	if c.Generator.BufferSize < 1 {
		return fmt.Errorf("generator.buffer_size must be at least 1")
	}
	if c.Catalog.Customers <= 0 {
		return fmt.Errorf("catalog.customers must be positive")
	}
	if c.Dataset.ReferenceDate != "" {
		if _, err := time.Parse(time.RFC3339, c.Dataset.ReferenceDate); err != nil {
			return fmt.Errorf("dataset.reference_date invalid: %w", err)
		}
	}
	for category, items := range c.Catalog.Categories {
		if len(items) == 0 {
			return fmt.Errorf("catalog.categories.%s has no items", category)
		}
	}
	return nil
}

// ReferenceTime 解析参考时钟，空值返回当前时间
func (c *Config) ReferenceTime() (time.Time, error) {
	if c.Dataset.ReferenceDate == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, c.Dataset.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse reference_date failed: %w", err)
	}
	return t, nil
}

// EffectiveSeed 返回生效种子，0 则派生自当前时间
func (c *Config) EffectiveSeed() int64 {
	if c.Dataset.Seed != 0 {
		return c.Dataset.Seed
	}
	return time.Now().UnixNano()
}
