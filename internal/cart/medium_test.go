package cart

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryMediumWriteIfAbsent(t *testing.T) {
	t.Parallel()

	medium := NewMemoryMedium()
	ctx := context.Background()

	wrote, err := medium.WriteIfAbsent(ctx, "k", "first")
	if err != nil || !wrote {
		t.Fatalf("expected first write to land, got wrote=%v err=%v", wrote, err)
	}

	wrote, err = medium.WriteIfAbsent(ctx, "k", "second")
	if err != nil || wrote {
		t.Fatalf("expected second write to be refused, got wrote=%v err=%v", wrote, err)
	}

	value, ok, err := medium.Read(ctx, "k")
	if err != nil || !ok || value != "first" {
		t.Fatalf("expected original value preserved, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestMemoryMediumWriteIfAbsentSingleWinner(t *testing.T) {
	t.Parallel()

	medium := NewMemoryMedium()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wrote, err := medium.WriteIfAbsent(ctx, "k", "v")
			if err != nil {
				t.Error(err)
			}
			if wrote {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winning write, got %d", winners)
	}
}

func TestMemoryMediumTake(t *testing.T) {
	t.Parallel()

	medium := NewMemoryMedium()
	ctx := context.Background()

	if err := medium.Write(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}

	value, ok, err := medium.Take(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("expected take to return the value, got %q ok=%v err=%v", value, ok, err)
	}

	if _, ok, _ := medium.Read(ctx, "k"); ok {
		t.Fatal("expected value removed after take")
	}
	if _, ok, _ := medium.Take(ctx, "k"); ok {
		t.Fatal("expected second take to miss")
	}
}
