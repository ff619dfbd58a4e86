package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coderi421/smallorm/orm"
	"github.com/coderi421/smallorm/orm/value"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: &Config{
				VarcharLength: 255,
				LogLevel:      "info",
				ColumnCache: ColumnCache{
					TTL:       15 * time.Minute,
					RedisAddr: "localhost:6379",
					Prefix:    "smallorm_columns",
				},
			},
		},
		{
			name: "yaml",
			file: "smallorm.yaml",
			content: `
driver: sqlite3
dsn: ":memory:"
legacy_coercion: true
varchar_length: 64
log_level: debug
column_cache:
  backend: memory
  ttl: 30s
`,
			want: &Config{
				Driver:         "sqlite3",
				DSN:            ":memory:",
				LegacyCoercion: true,
				VarcharLength:  64,
				LogLevel:       "debug",
				ColumnCache: ColumnCache{
					Backend:   CacheMemory,
					TTL:       30 * time.Second,
					RedisAddr: "localhost:6379",
					Prefix:    "smallorm_columns",
				},
			},
		},
		{
			name:    "env overrides file",
			file:    "smallorm.json",
			content: `{"driver": "mysql", "dsn": "root:root@tcp(localhost:3306)/test", "column_cache": {"backend": "memory"}}`,
			env: map[string]string{
				"SMALLORM_DSN":                  "root:secret@tcp(db:3306)/test",
				"SMALLORM_COLUMN_CACHE_BACKEND": "redis",
				"SMALLORM_VARCHAR_LENGTH":       "32",
			},
			want: &Config{
				Driver:        "mysql",
				DSN:           "root:secret@tcp(db:3306)/test",
				VarcharLength: 32,
				LogLevel:      "info",
				ColumnCache: ColumnCache{
					Backend:   CacheRedis,
					TTL:       15 * time.Minute,
					RedisAddr: "localhost:6379",
					Prefix:    "smallorm_columns",
				},
			},
		},
		{
			name:    "broken file",
			file:    "smallorm.yaml",
			content: "driver: [sqlite3",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeConfig(t, tc.file, tc.content)
			}
			cfg, err := Load(path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantLen int
		wantErr string
	}{
		{name: "plain", cfg: Config{LogLevel: "info"}, wantLen: 2},
		{name: "legacy and memory cache", cfg: Config{LogLevel: "warn", LegacyCoercion: true, ColumnCache: ColumnCache{Backend: CacheMemory}}, wantLen: 4},
		{name: "redis cache", cfg: Config{LogLevel: "info", ColumnCache: ColumnCache{Backend: CacheRedis, RedisAddr: "localhost:6379"}}, wantLen: 3},
		{name: "bad level", cfg: Config{LogLevel: "loud"}, wantErr: "config: log_level"},
		{name: "bad backend", cfg: Config{LogLevel: "info", ColumnCache: ColumnCache{Backend: "memcached"}}, wantErr: `config: unknown column cache backend "memcached"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := tc.cfg.Options()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, opts, tc.wantLen)
		})
	}
}

type user struct {
	Id   int64
	Name string
}

func TestOpen(t *testing.T) {
	path := writeConfig(t, "smallorm.yaml", `
driver: sqlite3
dsn: ":memory:"
varchar_length: 20
log_level: error
column_cache:
  backend: memory
`)
	e, cfg, err := Open(path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, e.Close())
		assert.NoError(t, cfg.Close())
	}()
	assert.Equal(t, orm.SQLite3, e.Dialect())

	ctx := context.Background()
	s, err := e.Schema(&user{})
	require.NoError(t, err)
	require.NoError(t, e.CreateTable(ctx, s, "user").Err())
	require.NoError(t, e.Table("user").Insert(ctx, &user{Id: 1, Name: "Tom"}).Err())
	rows, err := e.Table("user").Select(ctx)
	require.NoError(t, err)
	assert.Equal(t, []orm.Row{{"id": value.Int64(1), "name": value.String("Tom")}}, rows)
}

func TestOpen_MissingDriver(t *testing.T) {
	_, _, err := Open("")
	assert.Equal(t, errMissingDriver, err)
}

// redis 客户端只创建一次，由 Close 释放
func TestConfig_CloseRedisClient(t *testing.T) {
	cfg := &Config{LogLevel: "info", ColumnCache: ColumnCache{Backend: CacheRedis, RedisAddr: "localhost:6379"}}
	_, err := cfg.Options()
	require.NoError(t, err)
	client := cfg.redis
	require.NotNil(t, client)

	_, err = cfg.Options()
	require.NoError(t, err)
	assert.Same(t, client, cfg.redis)

	require.NoError(t, cfg.Close())
	assert.Nil(t, cfg.redis)
	assert.NoError(t, cfg.Close())

	// 打开失败的时候也会释放
	cfg = &Config{Driver: "oracle", LogLevel: "info", ColumnCache: ColumnCache{Backend: CacheRedis}}
	_, err = cfg.Open()
	require.Error(t, err)
	assert.Nil(t, cfg.redis)
}
