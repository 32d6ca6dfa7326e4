package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Security   SecurityConfig   `yaml:"security"`
	Logging    LoggingConfig    `yaml:"logging"`
	DataSource DataSourceConfig `yaml:"datasource"`

	Notification NotificationConfig `yaml:"notification"`
}

// NotificationConfig 工作流事件通知渠道配置
type NotificationConfig struct {
	// Feishu 飞书机器人
	FeishuEnabled bool   `yaml:"feishu_enabled"`
	FeishuWebhook string `yaml:"feishu_webhook"`
	FeishuSecret  string `yaml:"feishu_secret"`

	// DingTalk 钉钉机器人
	DingTalkEnabled bool   `yaml:"dingtalk_enabled"`
	DingTalkWebhook string `yaml:"dingtalk_webhook"`
	DingTalkSecret  string `yaml:"dingtalk_secret"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // debug / release
	BaseURL string `yaml:"base_url"`
}

// SetDefaults 设置服务默认值
func (c *ServerConfig) SetDefaults() {
	if c.APIPort == 0 {
		c.APIPort = 8080
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // 数据库驱动: mysql, postgres (默认: mysql)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// SetDefaults 设置数据库默认值
func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.Port == 0 {
		if c.Driver == "postgres" {
			c.Port = 5432
		} else {
			c.Port = 3306
		}
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600
	}
}

type RedisConfig struct {
	// Enabled 是否启用Redis
	// - true: 启用Redis，数据源拉取结果会缓存到Redis
	// - false: 禁用Redis，每次解析数据绑定字段都直接请求数据源
	Enabled bool `yaml:"enabled"`

	// Host Redis服务器地址（仅在enabled=true时有效）
	Host string `yaml:"host"`

	// Port Redis服务器端口（仅在enabled=true时有效）
	Port int `yaml:"port"`

	// Password Redis密码（可选，如果Redis未设置密码则留空）
	Password string `yaml:"password"`

	// DB Redis数据库编号（默认0）
	DB int `yaml:"db"`

	// ConnectTimeout 连接超时时间（秒，默认5秒）
	ConnectTimeout int `yaml:"connect_timeout"`

	// ReadTimeout 读取超时时间（秒，默认3秒）
	ReadTimeout int `yaml:"read_timeout"`

	// WriteTimeout 写入超时时间（秒，默认3秒）
	WriteTimeout int `yaml:"write_timeout"`

	// PoolSize 连接池大小（默认10）
	PoolSize int `yaml:"pool_size"`

	// MinIdleConns 最小空闲连接数（默认5）
	MinIdleConns int `yaml:"min_idle_conns"`
}

// Validate 验证Redis配置
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil // Redis未启用，无需验证
	}

	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}

	return nil
}

// SetDefaults 设置默认值
func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type SecurityConfig struct {
	// JWTSecret JWT签名密钥（建议64字节或更长，更安全）
	JWTSecret string `yaml:"jwt_secret"`

	// TokenExpireHours Token有效期（小时，默认24）
	TokenExpireHours int `yaml:"token_expire_hours"`
}

// SetDefaults 设置安全配置的默认值
func (c *SecurityConfig) SetDefaults() {
	if c.JWTSecret == "" {
		// 默认JWT密钥，仅用于开发环境，生产环境必须修改为强随机字符串
		c.JWTSecret = "kQ3mPZ1c7T9C0sWJpEY+XEPKa+swZRkAlDUojBhnUQUta4KY/EG3JnnI6mDSrxV"
	}
	if c.TokenExpireHours == 0 {
		c.TokenExpireHours = 24
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Output string `yaml:"output"` // console / file / both
	File   string `yaml:"file"`   // 日志文件路径
}

type DataSourceConfig struct {
	// FetchTimeout 外部数据源请求超时（秒，默认10秒）
	FetchTimeout int `yaml:"fetch_timeout"`

	// CacheTTL 数据源行缓存时间（秒，默认60秒，仅在Redis启用时生效）
	CacheTTL int `yaml:"cache_ttl"`
}

// SetDefaults 设置数据源默认值
func (c *DataSourceConfig) SetDefaults() {
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 60
	}
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 支持通过环境变量覆盖数据库配置（Docker 部署时使用）
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = port
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		config.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	// 支持通过环境变量覆盖Redis配置
	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		if enabled, err := strconv.ParseBool(redisEnabled); err == nil {
			config.Redis.Enabled = enabled
		}
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		config.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if port, err := strconv.Atoi(redisPort); err == nil {
			config.Redis.Port = port
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	// JWT密钥也允许环境变量覆盖
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.Security.JWTSecret = jwtSecret
	}

	// 设置默认值（放在环境变量覆盖之后）
	config.Server.SetDefaults()
	config.Database.SetDefaults()
	config.Redis.SetDefaults()
	config.Security.SetDefaults()
	config.DataSource.SetDefaults()

	// 验证配置
	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	GlobalConfig = &config
	return &config, nil
}
