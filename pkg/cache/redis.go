package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 商品列表缓存 TTL；导入/后台改动会主动失效，TTL 只兜底
const productListTTL = 5 * time.Minute

// 商品列表相关 key 统一前缀，失效时按前缀清除
const productKeyPrefix = "scm:products:"

// ProductCache 商品列表的旁路缓存（cache-aside）
// 仅缓存序列化后的响应体，不感知模型结构
type ProductCache struct {
	rdb *redis.Client
}

// NewProductCache 连接 Redis；连接失败返回 nil，调用方按无缓存运行
func NewProductCache(addr string) *ProductCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.S().Warnf("Redis 连接失败，商品列表缓存停用: %v", err)
		return nil
	}
	return &ProductCache{rdb: rdb}
}

// Get 读取缓存，miss 或出错均返回 false
func (c *ProductCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, productKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set 写入缓存，失败只记日志
func (c *ProductCache) Set(ctx context.Context, key string, data []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, productKeyPrefix+key, data, productListTTL).Err(); err != nil {
		zap.S().Warnf("商品缓存写入失败: %v", err)
	}
}

// Invalidate 清除全部商品列表缓存（导入、商品/分类写操作后调用）
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			zap.S().Warnf("商品缓存清除失败 key=%s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		zap.S().Warnf("商品缓存扫描失败: %v", err)
	}
}
