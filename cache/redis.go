// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache keeps final election results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/ballotbox/models"
)

const DefaultTTL = 24 * time.Hour

// RedisResults stores tallies of completed elections as JSON
type RedisResults struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResults(client *redis.Client, ttl time.Duration) *RedisResults {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisResults{client: client, ttl: ttl}
}

// Connect opens a client and pings it
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (c *RedisResults) Get(ctx context.Context, electionID string) (*models.ElectionResults, bool, error) {
	value, err := c.client.Get(ctx, resultsKey(electionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var results models.ElectionResults
	if err := json.Unmarshal(value, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached results: %w", err)
	}
	return &results, true, nil
}

func (c *RedisResults) Set(ctx context.Context, results *models.ElectionResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultsKey(results.ElectionID), data, c.ttl).Err()
}

func resultsKey(electionID string) string {
	return fmt.Sprintf("ballotbox:results:%s", electionID)
}
