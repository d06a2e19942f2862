package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sweepKeyPrefix = "sweep:"
	sweepLatestKey = "sweep:latest"
)

// Store はスキャン実行結果を Redis に保存します。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore は Store を作成します。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// Get は指定した実行の結果を取得します。存在しない場合は nil を返します。
func (s *Store) Get(ctx context.Context, runID string) (*SweepRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID is required")
	}
	return s.get(ctx, sweepKey(runID))
}

// Latest は直近の実行結果を取得します。存在しない場合は nil を返します。
func (s *Store) Latest(ctx context.Context) (*SweepRecord, error) {
	return s.get(ctx, sweepLatestKey)
}

// Save は実行結果を保存し、直近結果の参照も更新します。
func (s *Store) Save(ctx context.Context, record *SweepRecord) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sweepKey(record.RunID), payload, s.ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, sweepLatestKey, payload, s.ttl).Err()
}

func (s *Store) get(ctx context.Context, key string) (*SweepRecord, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var record SweepRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func sweepKey(runID string) string {
	return sweepKeyPrefix + runID
}
