package generator

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkBuildSequential(b *testing.B) {
	benchmarkBuild(b, 1)
}

func BenchmarkBuildConcurrent(b *testing.B) {
	benchmarkBuild(b, 4)
}

func benchmarkBuild(b *testing.B, workers int) {
	files := make(map[string]string, 32)
	body := strings.Repeat("Some *emphasis* and a [link](https://example.com).\n\n", 20)
	for i := 0; i < 32; i++ {
		files[fmt.Sprintf("article-%02d.md", i)] = helloArticle + body
	}
	env := newTestEnv(b, files)
	svc := env.service(Config{Workers: workers})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Build(ctx, BuildOptions{DryRun: true}); err != nil {
			b.Fatalf("benchmark build: %v", err)
		}
	}
}
