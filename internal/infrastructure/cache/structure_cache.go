package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

var _ inventory.StructureCache = (*StructureCache)(nil)

const keyPrefix = "wms:loc-sp:"

// StructureCache cache en Redis de ubicación → punto de almacenamiento.
// Con client nil degrada a sin cache.
type StructureCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStructureCache conecta a redisURL (redis://...). Si Redis no responde devuelve una cache inactiva y el error del ping.
func NewStructureCache(ctx context.Context, redisURL string, ttl time.Duration) (*StructureCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return &StructureCache{ttl: ttl}, fmt.Errorf("ping redis: %w", err)
	}
	return &StructureCache{client: client, ttl: ttl}, nil
}

// NewStructureCacheWithClient usa un cliente existente.
func NewStructureCacheWithClient(client *redis.Client, ttl time.Duration) *StructureCache {
	return &StructureCache{client: client, ttl: ttl}
}

func key(locationID string) string {
	return keyPrefix + locationID
}

// GetStoragePoint devuelve "" en cache miss.
func (c *StructureCache) GetStoragePoint(ctx context.Context, locationID string) (string, error) {
	if c.client == nil {
		return "", nil
	}
	sp, err := c.client.Get(ctx, key(locationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return sp, nil
}

// SetStoragePoint guarda la resolución con el TTL configurado.
func (c *StructureCache) SetStoragePoint(ctx context.Context, locationID, storagePointID string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key(locationID), storagePointID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate elimina las entradas de las ubicaciones (tras borrar o fusionar áreas).
func (c *StructureCache) Invalidate(ctx context.Context, locationIDs ...string) error {
	if c.client == nil || len(locationIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		keys = append(keys, key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (c *StructureCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
