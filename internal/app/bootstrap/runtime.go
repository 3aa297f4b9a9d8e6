package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const redisPingTimeout = 3 * time.Second

// BuildRedisClient returns a client for REDIS_ADDR, or nil when no address is
// set. With verify, an unreachable server is logged, closed and reported as nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := &redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: redisPingTimeout,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if !verify {
		return client
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not available", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildCustomizationStore picks the session customization store named by
// CUSTOMIZATION_STORE (memory, redis or dynamodb). A backend that cannot be
// reached falls back to memory. The returned client is nil unless redis is
// in use; the caller closes it.
func BuildCustomizationStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (personas.CustomizationStore, *redis.Client) {
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case cfg == nil:
	case cfg.CustomizationStore == "redis":
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("customization store: redis", "addr", cfg.RedisAddr)
			return personas.NewRedisCustomizationStore(client, cfg.CustomizationTTL), client
		}
		logger.Warn("customization store: redis unavailable, using memory")
	case cfg.CustomizationStore == "dynamodb":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err == nil && strings.TrimSpace(cfg.CustomizationTable) != "" {
			logger.Info("customization store: dynamodb", "table", cfg.CustomizationTable, "region", cfg.AWSRegion)
			return personas.NewDynamoCustomizationStore(BuildDynamoClient(awsCfg, cfg), cfg.CustomizationTable, cfg.CustomizationTTL), nil
		}
		logger.Warn("customization store: dynamodb unavailable, using memory", "error", err, "table", cfg.CustomizationTable)
	}
	var ttl time.Duration
	if cfg != nil {
		ttl = cfg.CustomizationTTL
	}
	return personas.NewMemoryCustomizationStore(ttl), nil
}
