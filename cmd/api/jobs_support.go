package main

import (
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/library-catalog/internal/checkout"
	"github.com/yourusername/library-catalog/internal/config"
	"github.com/yourusername/library-catalog/internal/jobs"
)

// スキャン結果の保持期間。次回実行までに参照できれば十分なので
// 実行間隔より長めに取っておく。
const sweepRecordTTL = 7 * 24 * time.Hour

func setupJobs(cfg *config.Config, checkouts *checkout.Service) (*jobs.Manager, error) {
	opt, err := redis.ParseURL(cfg.QueueRedisURL)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(opt)
	store := jobs.NewStore(redisClient, sweepRecordTTL)
	return jobs.NewManager(cfg, checkouts, store, log.Default())
}
