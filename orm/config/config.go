package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/coderi421/smallorm/orm"
	"github.com/coderi421/smallorm/orm/colcache/memory"
	ormredis "github.com/coderi421/smallorm/orm/colcache/redis"
	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const envPrefix = "SMALLORM"

// 列名缓存的实现
const (
	CacheNone   = ""
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var errMissingDriver = errors.New("config: driver is required")

// Config 是 Engine 的文件配置，环境变量 SMALLORM_XXX 可以覆盖文件里面的值，
// 嵌套的 key 用下划线连接，比如 SMALLORM_COLUMN_CACHE_BACKEND
type Config struct {
	Driver         string      `mapstructure:"driver"`
	DSN            string      `mapstructure:"dsn"`
	LegacyCoercion bool        `mapstructure:"legacy_coercion"`
	VarcharLength  int         `mapstructure:"varchar_length"`
	LogLevel       string      `mapstructure:"log_level"`
	ColumnCache    ColumnCache `mapstructure:"column_cache"`

	// redis 是 Options 创建的客户端，Close 的时候关闭
	redis *redis.Client
}

type ColumnCache struct {
	// Backend 为空的时候不缓存，每一次 SELECT * 都会 describe
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
	Prefix    string        `mapstructure:"prefix"`
}

// Load 读取 path 指定的配置文件，path 为空的时候只读环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults，同时也让 AutomaticEnv 知道有哪些 key
	v.SetDefault("driver", "")
	v.SetDefault("dsn", "")
	v.SetDefault("legacy_coercion", false)
	v.SetDefault("varchar_length", 255)
	v.SetDefault("log_level", "info")
	v.SetDefault("column_cache.backend", CacheNone)
	v.SetDefault("column_cache.ttl", 15*time.Minute)
	v.SetDefault("column_cache.redis_addr", "localhost:6379")
	v.SetDefault("column_cache.prefix", "smallorm_columns")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Options 把配置转换成 orm.EngineOption
func (c *Config) Options() ([]orm.EngineOption, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []orm.EngineOption{
		orm.WithLogger(logger),
		orm.WithVarcharLength(c.VarcharLength),
	}
	if c.LegacyCoercion {
		opts = append(opts, orm.WithLegacyCoercion())
	}

	switch c.ColumnCache.Backend {
	case CacheNone:
	case CacheMemory:
		opts = append(opts, orm.WithColumnCache(memory.NewCache(c.ColumnCache.TTL)))
	case CacheRedis:
		if c.redis == nil {
			c.redis = redis.NewClient(&redis.Options{
				Addr: c.ColumnCache.RedisAddr,
			})
		}
		opts = append(opts, orm.WithColumnCache(ormredis.NewCache(c.redis,
			ormredis.WithPrefix(c.ColumnCache.Prefix),
			ormredis.WithExpiration(c.ColumnCache.TTL))))
	default:
		return nil, fmt.Errorf("config: unknown column cache backend %q", c.ColumnCache.Backend)
	}
	return opts, nil
}

// Close 释放 Options 创建的 redis 客户端，Engine 关闭之后再调用
func (c *Config) Close() error {
	if c.redis == nil {
		return nil
	}
	err := c.redis.Close()
	c.redis = nil
	return err
}

// Open 按照配置打开 Engine，opts 会追加在配置生成的选项后面
func (c *Config) Open(opts ...orm.EngineOption) (*orm.Engine, error) {
	if c.Driver == "" {
		return nil, errMissingDriver
	}
	base, err := c.Options()
	if err != nil {
		return nil, err
	}
	e, err := orm.Open(c.Driver, c.DSN, append(base, opts...)...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return e, nil
}

// Open 读取配置文件并且打开 Engine
// 返回的 Config 在 Engine 关闭之后需要 Close
func Open(path string, opts ...orm.EngineOption) (*orm.Engine, *Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	e, err := cfg.Open(opts...)
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}
