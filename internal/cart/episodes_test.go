package cart

import (
	"context"
	"testing"
	"time"
)

func TestEpisodesClaimIsSingleWinner(t *testing.T) {
	t.Parallel()

	medium := NewMemoryMedium()
	episodes := NewEpisodes(medium, nil)
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	episodes.StartIfAbsent(ctx, at)

	claimed, ok := episodes.Claim(ctx)
	if !ok {
		t.Fatal("expected first claim to win")
	}
	if !claimed.Equal(at) {
		t.Fatalf("expected claimed instant %v, got %v", at, claimed)
	}

	if _, ok := episodes.Claim(ctx); ok {
		t.Fatal("expected second claim to lose")
	}
	if _, open := episodes.StartedAt(ctx); open {
		t.Fatal("expected no open episode after claim")
	}
}

func TestEpisodesStartIfAbsentKeepsEarlierInstant(t *testing.T) {
	t.Parallel()

	episodes := NewEpisodes(NewMemoryMedium(), nil)
	ctx := context.Background()

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	episodes.StartIfAbsent(ctx, first)
	episodes.StartIfAbsent(ctx, first.Add(time.Hour))

	startedAt, open := episodes.StartedAt(ctx)
	if !open || !startedAt.Equal(first) {
		t.Fatalf("expected original instant %v, got %v", first, startedAt)
	}
}

func TestEpisodesCorruptMarkerReadsClosed(t *testing.T) {
	t.Parallel()

	medium := NewMemoryMedium()
	ctx := context.Background()
	if err := medium.Write(ctx, MarkerKey, "not-a-number"); err != nil {
		t.Fatal(err)
	}

	episodes := NewEpisodes(medium, nil)
	if _, open := episodes.StartedAt(ctx); open {
		t.Fatal("expected corrupt marker to read as closed")
	}
}

func TestEpisodesNilMedium(t *testing.T) {
	t.Parallel()

	episodes := NewEpisodes(nil, nil)
	ctx := context.Background()

	episodes.StartIfAbsent(ctx, time.Now())
	if _, open := episodes.StartedAt(ctx); open {
		t.Fatal("expected nil medium to report closed")
	}
	if _, ok := episodes.Claim(ctx); ok {
		t.Fatal("expected nil medium claim to lose")
	}
	episodes.Clear(ctx)
}
