package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"routesafe-service/internal/domain"
)

func newTestSqliteCache(t *testing.T) *SqliteLegCache {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewSqliteLegCache(db)
}

func TestSqliteLegCacheRoundTrip(t *testing.T) {
	c := newTestSqliteCache(t)
	ctx := context.Background()

	bridge := 4.7
	leg := domain.Leg{
		Start:           "LS27 0LF",
		End:             "WF3 1AB",
		DistanceMeters:  10234.5,
		DurationSeconds: 912,
		Risk: domain.BridgeRisk{
			NearHeightLimit:      true,
			NearestBridgeHeightM: &bridge,
			Note:                 "Route passes near a bridge close to height limit",
		},
		MapURL: "https://example.com/direct",
	}

	if err := c.Put(ctx, "LS27 0LF", "WF3 1AB", 4.5, leg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "LS27 0LF", "WF3 1AB", 4.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}

	if got.DistanceMeters != leg.DistanceMeters || got.DurationSeconds != leg.DurationSeconds {
		t.Errorf("metrics = (%v, %v), want (%v, %v)",
			got.DistanceMeters, got.DurationSeconds, leg.DistanceMeters, leg.DurationSeconds)
	}
	if got.Risk.HasConflict || !got.Risk.NearHeightLimit {
		t.Errorf("risk flags = (%v, %v), want (false, true)", got.Risk.HasConflict, got.Risk.NearHeightLimit)
	}
	if got.Risk.NearestBridgeHeightM == nil || *got.Risk.NearestBridgeHeightM != 4.7 {
		t.Errorf("nearest bridge height = %v, want 4.7", got.Risk.NearestBridgeHeightM)
	}
	if got.Alternative != nil {
		t.Errorf("alternative = %+v, want nil", got.Alternative)
	}
}

func TestSqliteLegCachePutReplacesExisting(t *testing.T) {
	c := newTestSqliteCache(t)
	ctx := context.Background()

	first := domain.Leg{Start: "A", End: "B", DistanceMeters: 100, DurationSeconds: 60}
	if err := c.Put(ctx, "A", "B", 4.5, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := first
	second.DistanceMeters = 250
	if err := c.Put(ctx, "A", "B", 4.5, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "A", "B", 4.5)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.DistanceMeters != 250 {
		t.Errorf("distance = %v, want 250 after replace", got.DistanceMeters)
	}
}
