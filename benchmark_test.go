package lottopick

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkCombinationSampler_Sample 采样器性能基准测试
func BenchmarkCombinationSampler_Sample(b *testing.B) {
	sampler := NewCombinationSampler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := sampler.Sample()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkIsExtremePattern 极端模式过滤性能基准测试
func BenchmarkIsExtremePattern(b *testing.B) {
	combos := []Combination{
		{7, 14, 23, 28, 35, 42},  // 正常组合
		{1, 2, 3, 4, 5, 10},      // 连号
		{5, 10, 15, 20, 25, 30},  // 等差数列
		{1, 3, 5, 7, 9, 11},      // 全奇数且和过小
		{40, 41, 42, 43, 44, 45}, // 同区间集中
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsExtremePattern(combos[i%len(combos)])
	}
}

// BenchmarkBatchGenerator_Generate 批量生成性能基准测试
func BenchmarkBatchGenerator_Generate(b *testing.B) {
	ctx := context.Background()

	testCases := []struct {
		name  string
		count int
	}{
		{"单注", 1},
		{"五注", 5},
		{"二十注", 20},
	}

	for _, tc := range testCases {
		b.Run(fmt.Sprintf("生成_%s", tc.name), func(b *testing.B) {
			generator := NewBatchGeneratorWithLogger(NewStaticDrawProvider(), NewSilentLogger())
			generator.DisableMonitoring()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := generator.Generate(ctx, tc.count, "")
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkHistoricalDuplicateIndex_IsDuplicate 历史查重性能基准测试
func BenchmarkHistoricalDuplicateIndex_IsDuplicate(b *testing.B) {
	ctx := context.Background()

	// 预加载一批历史开奖记录
	provider := NewStaticDrawProvider()
	sampler := NewCombinationSampler()
	for i := 0; i < 1000; i++ {
		combo, err := sampler.Sample()
		if err != nil {
			b.Fatal(err)
		}
		provider.Add(combo)
	}

	index := NewHistoricalDuplicateIndex(provider)
	index.SetLogger(NewSilentLogger())

	numbers := []int{7, 14, 23, 28, 35, 42}

	// 预热缓存，基准只测命中路径
	index.IsDuplicate(ctx, numbers)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		index.IsDuplicate(ctx, numbers)
	}
}

// BenchmarkGenerationMonitor_Concurrent 监控计数器并发性能基准测试
func BenchmarkGenerationMonitor_Concurrent(b *testing.B) {
	monitor := NewGenerationMonitor()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			monitor.RecordSampleAttempt()
			monitor.RecordAccepted()
		}
	})
}
