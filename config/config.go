// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀，BLOG_DATABASE__HOST -> database.host
const EnvPrefix = "BLOG_"

// Load 加载配置文件，环境变量覆盖文件中的值
func Load(configPath string) (*AppConfig, error) {
	// 首先加载 .env 文件到环境变量
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	setDefaults(conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) *AppConfig {
	conf, err := Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	return conf
}

// listKeys 以逗号分隔的列表配置项
var listKeys = map[string]bool{
	"guest.permissions": true,
}

// envValue 列表项按逗号拆分，BLOG_GUEST__PERMISSIONS=GetPubArticle,FindTag
func envValue(key, value string) (string, interface{}) {
	key = envKey(key)
	if !listKeys[key] {
		return key, value
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey BLOG_JWT__PUBLIC_KEY_PATH -> jwt.public_key_path
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// setDefaults 设置默认值
func setDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:5173"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	if c.S3.ExternalEndpoint == "" {
		c.S3.ExternalEndpoint = c.S3.Endpoint
	}
	if c.Upload.MinSize == 0 {
		c.Upload.MinSize = 1
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 10 << 20
	}
	if c.Upload.LinkTTL == 0 {
		c.Upload.LinkTTL = 10 * time.Minute
	}
	if c.Upload.SweepSchedule == "" {
		c.Upload.SweepSchedule = "@every 30m"
	}
	if c.Views.DedupeWindow == 0 {
		c.Views.DedupeWindow = 30 * time.Minute
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate 检查必填配置
func (c *AppConfig) Validate() error {
	switch c.JWT.Algorithm {
	case "HS256":
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required for HS256")
		}
	case "ES256":
		if c.JWT.PublicKeyPath == "" {
			return fmt.Errorf("jwt.public_key_path is required for ES256")
		}
	default:
		return fmt.Errorf("unsupported jwt.algorithm %q", c.JWT.Algorithm)
	}
	if c.Upload.MinSize > c.Upload.MaxSize {
		return fmt.Errorf("upload.min_size %d exceeds upload.max_size %d", c.Upload.MinSize, c.Upload.MaxSize)
	}
	return nil
}

// Addr HTTP 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
