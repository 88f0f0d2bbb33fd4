package config

import "time"

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	GRPC     GRPCConfig     `koanf:"grpc"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	S3       S3Config       `koanf:"s3"`
	Upload   UploadConfig   `koanf:"upload"`
	Guest    GuestConfig    `koanf:"guest"`
	Views    ViewsConfig    `koanf:"views"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	FrontendURL  string        `koanf:"frontend_url"` // CORS 允许的来源
}

type GRPCConfig struct {
	Port int `koanf:"port"` // 0 表示不启动
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Algorithm     string `koanf:"algorithm"`       // HS256, ES256
	Secret        string `koanf:"secret"`          // HS256 共享密钥
	PublicKeyPath string `koanf:"public_key_path"` // ES256 公钥 PEM 文件
}

type S3Config struct {
	Endpoint         string `koanf:"endpoint"`          // 服务端访问地址
	ExternalEndpoint string `koanf:"external_endpoint"` // 客户端访问地址，用于签名与下载链接
	Region           string `koanf:"region"`
	Bucket           string `koanf:"bucket"`
	AccessKey        string `koanf:"access_key"`
	SecretKey        string `koanf:"secret_key"`
	UsePathStyle     bool   `koanf:"use_path_style"`
}

type UploadConfig struct {
	MinSize       int64         `koanf:"min_size"`       // 字节
	MaxSize       int64         `koanf:"max_size"`       // 字节
	LinkTTL       time.Duration `koanf:"link_ttl"`       // 上传链接有效期
	SweepSchedule string        `koanf:"sweep_schedule"` // 未确认文件清理的 cron 表达式
}

type GuestConfig struct {
	Permissions []string `koanf:"permissions"`
}

type ViewsConfig struct {
	DedupeWindow time.Duration `koanf:"dedupe_window"` // 同一查看者重复浏览不计数的时间窗口
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}
