// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration
// +build integration

package main

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/game"
	"github.com/splintermate/splintermate/pkg/state"
)

// This is a manual integration test for the session stats store.
// Run this with: go run -tags integration test_redis_integration.go
// Requires: Redis running on localhost:6379

func main() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.Infof("starting Redis integration test...")

	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	defer client.Close()

	store := state.NewRedisStore(client, state.RedisStoreConfig{
		TTL:       time.Minute,
		KeyPrefix: "splintermate:integration:",
	})

	const account = "integration-test"

	stats, err := store.SessionStats(ctx, account)
	if err != nil {
		logrus.Fatalf("failed to read session stats: %v", err)
	}
	logrus.Infof("initial stats: %+v", stats)

	stats.Record(&game.BattleResult{
		Outcome:   game.OutcomeWin,
		RewardDEC: 0.42,
		Timestamp: time.Now(),
	})
	if err := store.UpdateSessionStats(ctx, account, stats); err != nil {
		logrus.Fatalf("failed to write session stats: %v", err)
	}

	readBack, err := store.SessionStats(ctx, account)
	if err != nil {
		logrus.Fatalf("failed to re-read session stats: %v", err)
	}
	if readBack.Wins != stats.Wins || readBack.RewardDEC != stats.RewardDEC {
		logrus.Fatalf("round trip mismatch: wrote %+v, read %+v", stats, readBack)
	}

	logrus.Infof("Redis integration test passed: %+v", readBack)
}
