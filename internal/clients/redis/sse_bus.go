package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/careloop/careloop-backend/internal/logger"
	"github.com/careloop/careloop-backend/internal/sse"
)

// SSEBus fans realtime messages out across instances through redis
// pub/sub. Single-instance deployments skip it and publish straight to
// the in-process hub.
type SSEBus interface {
	Publish(ctx context.Context, msg sse.SSEMessage) error
	StartForwarder(ctx context.Context, deliver func(msg sse.SSEMessage)) error
	Close() error
}

type sseBus struct {
	log       *logger.Logger
	rdb       *goredis.Client
	busChan   string
	forwarded bool
}

func NewSSEBus(log *logger.Logger) (SSEBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	busChan := strings.TrimSpace(os.Getenv("REDIS_SSE_CHANNEL"))
	if busChan == "" {
		busChan = "careloop:sse"
	}

	dbIndex := 0
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			dbIndex = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          dbIndex,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sseBus{
		log:     log.With("service", "SSEBus"),
		rdb:     rdb,
		busChan: busChan,
	}, nil
}

func (b *sseBus) Publish(ctx context.Context, msg sse.SSEMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("sse bus not initialized")
	}
	if msg.Channel == "" {
		return fmt.Errorf("sse message missing channel")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode sse message: %w", err)
	}
	return b.rdb.Publish(ctx, b.busChan, payload).Err()
}

// StartForwarder subscribes to the bus channel and hands every decoded
// message to deliver. It returns once the subscription is confirmed;
// delivery runs on a background goroutine until ctx is done.
func (b *sseBus) StartForwarder(ctx context.Context, deliver func(msg sse.SSEMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("sse bus not initialized")
	}
	if deliver == nil {
		return fmt.Errorf("deliver callback required")
	}
	if b.forwarded {
		return fmt.Errorf("forwarder already started")
	}
	b.forwarded = true

	sub := b.rdb.Subscribe(ctx, b.busChan)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer func() { _ = sub.Close() }()
		incoming := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-incoming:
				if !ok || raw == nil {
					return
				}
				var msg sse.SSEMessage
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					b.log.Warn("Dropping undecodable bus payload", "error", err)
					continue
				}
				if msg.Channel == "" {
					continue
				}
				deliver(msg)
			}
		}
	}()
	return nil
}

func (b *sseBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
