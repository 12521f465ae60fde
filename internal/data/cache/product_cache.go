package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"storefront/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productListPrefix = "storefront:products:"
	productGenKey     = productListPrefix + "gen"
)

// Generation identifies one version of the catalog. Every write bumps it, so
// a listing read before the write can only ever be stored under the old
// generation, which no reader asks for again.
type Generation int64

// NoGeneration tells SetProducts to skip the write.
const NoGeneration Generation = -1

func productListKey(gen Generation) string {
	return productListPrefix + strconv.FormatInt(int64(gen), 10)
}

// ProductCache holds the full catalog listing. It is best effort: failures are
// logged and reported as a miss so the document store stays the source of truth.
//
// Callers take the generation from GetProducts before reading the store and
// hand it back to SetProducts.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]*entity.Product, Generation, bool)
	SetProducts(ctx context.Context, gen Generation, products []*entity.Product)
	Invalidate(ctx context.Context)
}

type redisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) ProductCache {
	return &redisProductCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "product")),
	}
}

func (c *redisProductCache) generation(ctx context.Context) (Generation, error) {
	gen, err := c.rdb.Get(ctx, productGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return NoGeneration, err
	}
	return Generation(gen), nil
}

func (c *redisProductCache) GetProducts(ctx context.Context) ([]*entity.Product, Generation, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn("Failed to read product list generation from redis", zap.Error(err))
		return nil, NoGeneration, false
	}

	raw, err := c.rdb.Get(ctx, productListKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		c.log.Warn("Failed to read product list from redis", zap.Error(err))
		return nil, NoGeneration, false
	}

	var products []*entity.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.log.Warn("Discarding undecodable product list", zap.Error(err), zap.Int64("generation", int64(gen)))
		if err := c.rdb.Del(ctx, productListKey(gen)).Err(); err != nil {
			c.log.Warn("Failed to drop product list", zap.Error(err))
		}
		return nil, gen, false
	}

	return products, gen, true
}

func (c *redisProductCache) SetProducts(ctx context.Context, gen Generation, products []*entity.Product) {
	if gen < 0 {
		return
	}
	if products == nil {
		products = []*entity.Product{}
	}

	raw, err := json.Marshal(products)
	if err != nil {
		c.log.Warn("Failed to encode product list", zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, productListKey(gen), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to write product list to redis", zap.Error(err))
	}
}

// Invalidate moves readers to a fresh generation. The old listing is left to
// expire.
func (c *redisProductCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, productGenKey).Err(); err != nil {
		c.log.Warn("Failed to invalidate product list", zap.Error(err))
	}
}

type noopProductCache struct{}

// NewNoopProductCache is used when REDIS_ADDR is empty
func NewNoopProductCache() ProductCache {
	return noopProductCache{}
}

func (noopProductCache) GetProducts(context.Context) ([]*entity.Product, Generation, bool) {
	return nil, NoGeneration, false
}
func (noopProductCache) SetProducts(context.Context, Generation, []*entity.Product) {}
func (noopProductCache) Invalidate(context.Context)                                 {}
