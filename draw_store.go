package lottopick

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
)

// RedisDrawStore is the production HistoricalDrawProvider: the winning draws
// live in a Redis SET of encoded members ("1-7-13-24-35-42"), maintained by
// the result-recording side of the system and read here as snapshots.
type RedisDrawStore struct {
	redisClient *redis.Client
	logger      Logger
	key         string
}

// NewRedisDrawStore creates a store over the default draw set key
func NewRedisDrawStore(redisClient *redis.Client) *RedisDrawStore {
	return &RedisDrawStore{
		redisClient: redisClient,
		logger:      &DefaultLogger{},
		key:         DrawSetKey,
	}
}

// NewRedisDrawStoreWithKey creates a store over a custom key, for
// deployments that partition draw history per game
func NewRedisDrawStoreWithKey(redisClient *redis.Client, key string, logger Logger) *RedisDrawStore {
	if key == "" {
		key = DrawSetKey
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}

	return &RedisDrawStore{
		redisClient: redisClient,
		logger:      logger,
		key:         key,
	}
}

// ExistingCombinations loads the full draw set from Redis. Corrupt members
// are skipped with a warning rather than failing the snapshot, matching how
// the recording side tolerates bad rows; transport errors are returned to
// the caller untouched.
func (s *RedisDrawStore) ExistingCombinations(ctx context.Context) (CombinationSet, error) {
	members, err := s.redisClient.SMembers(ctx, s.key).Result()
	if err != nil {
		s.logger.Error("failed to load draw set from Redis: %v", err)
		return nil, ErrProviderUnavailable.WithCause(err).WithDetails("SMEMBERS " + s.key)
	}

	snapshot := make(CombinationSet, len(members))
	skipped := 0
	for _, member := range members {
		key, decodeErr := decodeDrawMember(member)
		if decodeErr != nil {
			s.logger.Error("skipping corrupt draw record %q: %v", member, decodeErr)
			skipped++
			continue
		}
		snapshot.Add(key)
	}

	if skipped > 0 {
		s.logger.Info("draw set loaded with %d corrupt records skipped", skipped)
	}
	s.logger.Debug("draw set loaded: %d combinations", len(snapshot))

	return snapshot, nil
}

// RecordDraw appends a winning draw to the set. Callers should clear the
// duplicate index cache afterwards for immediate consistency.
func (s *RedisDrawStore) RecordDraw(ctx context.Context, combo Combination) error {
	if err := s.redisClient.SAdd(ctx, s.key, encodeDrawMember(combo)).Err(); err != nil {
		s.logger.Error("failed to record draw %s: %v", combo, err)
		return ErrRedisConnectionFailed.WithCause(err)
	}

	s.logger.Info("winning draw recorded: %s", combo)
	return nil
}

// DrawCount returns the number of recorded winning draws
func (s *RedisDrawStore) DrawCount(ctx context.Context) (int64, error) {
	count, err := s.redisClient.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, ErrRedisConnectionFailed.WithCause(err)
	}
	return count, nil
}

// encodeDrawMember renders a combination as a set member
func encodeDrawMember(combo Combination) string {
	return combo.String()
}

// decodeDrawMember parses a set member back into a canonical key
func decodeDrawMember(member string) (CombinationKey, error) {
	parts := strings.Split(member, DrawKeySeparator)
	if len(parts) != PickCount {
		return CombinationKey{}, ErrCorruptDrawRecord.WithDetails(
			fmt.Sprintf("got %d fields", len(parts)))
	}

	numbers := make([]int, PickCount)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return CombinationKey{}, ErrCorruptDrawRecord.WithDetails(
				fmt.Sprintf("field %q is not a number", part))
		}
		numbers[i] = n
	}

	combo, err := NewCombination(numbers)
	if err != nil {
		return CombinationKey{}, ErrCorruptDrawRecord.WithCause(err)
	}

	return combo.Key(), nil
}

// StaticDrawProvider is an in-memory HistoricalDrawProvider for tests,
// examples, and deployments that preload history at startup
type StaticDrawProvider struct {
	mu    sync.RWMutex
	draws CombinationSet
}

// NewStaticDrawProvider creates a provider preloaded with the given draws
func NewStaticDrawProvider(draws ...Combination) *StaticDrawProvider {
	set := make(CombinationSet, len(draws))
	for _, combo := range draws {
		set.Add(combo.Key())
	}
	return &StaticDrawProvider{draws: set}
}

// Add records another winning draw
func (p *StaticDrawProvider) Add(combo Combination) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.draws.Add(combo.Key())
}

// ExistingCombinations returns a copy of the draw set, so callers hold an
// immutable snapshot even while Add keeps recording
func (p *StaticDrawProvider) ExistingCombinations(ctx context.Context) (CombinationSet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snapshot := make(CombinationSet, len(p.draws))
	for key := range p.draws {
		snapshot[key] = struct{}{}
	}
	return snapshot, nil
}
