package lottopick

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDrawStore_ExistingCombinations(t *testing.T) {
	ctx := context.Background()

	t.Run("loads_valid_members", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

		mock.ExpectSMembers(DrawSetKey).SetVal([]string{
			"1-7-13-24-35-42",
			"3-11-19-27-36-44",
		})

		snapshot, err := store.ExistingCombinations(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot, 2)
		assert.True(t, snapshot.Contains(mustCombination(t, 1, 7, 13, 24, 35, 42).Key()))
		assert.True(t, snapshot.Contains(mustCombination(t, 3, 11, 19, 27, 36, 44).Key()))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips_corrupt_members", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

		mock.ExpectSMembers(DrawSetKey).SetVal([]string{
			"1-7-13-24-35-42",
			"1-2-3",             // too few fields
			"1-7-x-24-35-42",    // non-numeric field
			"1-7-13-24-35-99",   // out of range
			"7-7-13-24-35-42",   // repeated number
		})

		snapshot, err := store.ExistingCombinations(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot, 1)
		assert.True(t, snapshot.Contains(mustCombination(t, 1, 7, 13, 24, 35, 42).Key()))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transport_error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

		mock.ExpectSMembers(DrawSetKey).SetErr(errors.New("connection refused"))

		snapshot, err := store.ExistingCombinations(ctx)
		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, ErrProviderUnavailable)
		assert.True(t, IsRetryableError(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("custom_key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, "lottopick:draws:powerball", NewSilentLogger())

		mock.ExpectSMembers("lottopick:draws:powerball").SetVal([]string{})

		snapshot, err := store.ExistingCombinations(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisDrawStore_RecordDraw(t *testing.T) {
	ctx := context.Background()
	combo := mustCombination(t, 42, 35, 24, 13, 7, 1)

	t.Run("records_canonical_member", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

		// member is always the sorted rendering regardless of input order
		mock.ExpectSAdd(DrawSetKey, "1-7-13-24-35-42").SetVal(1)

		require.NoError(t, store.RecordDraw(ctx, combo))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transport_error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

		mock.ExpectSAdd(DrawSetKey, "1-7-13-24-35-42").SetErr(errors.New("i/o timeout"))

		err := store.RecordDraw(ctx, combo)
		assert.ErrorIs(t, err, ErrRedisConnectionFailed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisDrawStore_DrawCount(t *testing.T) {
	ctx := context.Background()

	db, mock := redismock.NewClientMock()
	store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

	mock.ExpectSCard(DrawSetKey).SetVal(137)

	count, err := store.DrawCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(137), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisDrawStore_WithDuplicateIndex(t *testing.T) {
	ctx := context.Background()

	db, mock := redismock.NewClientMock()
	store := NewRedisDrawStoreWithKey(db, DrawSetKey, NewSilentLogger())

	mock.ExpectSMembers(DrawSetKey).SetVal([]string{"1-7-13-24-35-42"})

	index := NewHistoricalDuplicateIndex(store)
	index.SetLogger(NewSilentLogger())

	// one SMEMBERS serves both queries through the cache
	assert.True(t, index.IsDuplicate(ctx, []int{1, 7, 13, 24, 35, 42}))
	assert.False(t, index.IsDuplicate(ctx, []int{3, 11, 19, 27, 36, 44}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeDrawMember(t *testing.T) {
	tests := []struct {
		name        string
		member      string
		expectError bool
	}{
		{"valid", "1-7-13-24-35-42", false},
		{"boundary_numbers", "1-2-3-4-44-45", false},
		{"too_few_fields", "1-7-13", true},
		{"too_many_fields", "1-7-13-24-35-42-44", true},
		{"empty", "", true},
		{"non_numeric", "1-7-abc-24-35-42", true},
		{"out_of_range", "0-7-13-24-35-42", true},
		{"repeated", "7-7-13-24-35-42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := decodeDrawMember(tt.member)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrCorruptDrawRecord)
			} else {
				require.NoError(t, err)
				assert.Equal(t, key, sortedKey(key[:]))
			}
		})
	}
}

func TestStaticDrawProvider(t *testing.T) {
	ctx := context.Background()

	first := mustCombination(t, 1, 7, 13, 24, 35, 42)
	second := mustCombination(t, 3, 11, 19, 27, 36, 44)

	provider := NewStaticDrawProvider(first)

	snapshot, err := provider.ExistingCombinations(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, 1)

	provider.Add(second)

	// earlier snapshot is unaffected by later draws
	assert.Len(t, snapshot, 1)

	snapshot, err = provider.ExistingCombinations(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.True(t, snapshot.Contains(second.Key()))
}
