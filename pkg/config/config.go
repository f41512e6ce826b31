package config

import (
	"github.com/spf13/viper"
)

// Config 应用配置，全部来源于环境变量（容器部署约定）
type Config struct {
	ServerPort  string // 服务监听端口
	DatabaseDSN string // Postgres DSN
	LogMode     string // development | production
	LogFile     string // 为空则不写文件
	JWTSecret   string
	RedisAddr   string
	RedisEnable bool   // 商品列表缓存开关
	RepairCron  string // 数据修复定时表达式，为空则不启用
}

// Load 读取配置，缺省值保证本地开发开箱即用
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_DSN", "host=localhost user=scm_admin password=1234 dbname=scm_b2b port=5432 sslmode=disable")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_ENABLE", false)
	v.SetDefault("REPAIR_CRON", "")

	return &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		LogMode:     v.GetString("LOG_MODE"),
		LogFile:     v.GetString("LOG_FILE"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisEnable: v.GetBool("REDIS_ENABLE"),
		RepairCron:  v.GetString("REPAIR_CRON"),
	}
}
