package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/repository/memory"
)

func revokedAction(moderatorID uuid.UUID, createdAt time.Time, reversedAfter time.Duration) models.ModerationAction {
	revokedAt := createdAt.Add(reversedAfter)
	return models.ModerationAction{
		ID:           uuid.New(),
		ModeratorID:  moderatorID,
		TargetUserID: uuid.New(),
		ActionType:   models.ActionUserWarned,
		Reason:       "r",
		CreatedAt:    createdAt,
		RevokedAt:    &revokedAt,
	}
}

func liveAction(moderatorID uuid.UUID) models.ModerationAction {
	return models.ModerationAction{
		ID:           uuid.New(),
		ModeratorID:  moderatorID,
		TargetUserID: uuid.New(),
		ActionType:   models.ActionUserWarned,
		Reason:       "r",
		CreatedAt:    time.Now(),
	}
}

func TestCalculateReversalStats(t *testing.T) {
	modA := uuid.New()
	modB := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	actions := []models.ModerationAction{
		liveAction(modA),
		liveAction(modA),
		revokedAction(modA, base, time.Hour),
		liveAction(modB),
	}

	stats := CalculateReversalStats(actions)
	assert.Equal(t, 4, stats.TotalActions)
	assert.Equal(t, 1, stats.ReversedActions)
	assert.Equal(t, 25.0, stats.ReversalRate)

	a := stats.PerModerator[modA.String()]
	assert.Equal(t, 3, a.TotalActions)
	assert.Equal(t, 1, a.ReversedActions)
	assert.Equal(t, 33.3, a.ReversalRate)

	b := stats.PerModerator[modB.String()]
	assert.Equal(t, 1, b.TotalActions)
	assert.Equal(t, 0, b.ReversedActions)
	assert.Equal(t, 0.0, b.ReversalRate)

	// Per-moderator totals always sum to the overall totals.
	var sumTotal, sumReversed int
	for _, ms := range stats.PerModerator {
		sumTotal += ms.TotalActions
		sumReversed += ms.ReversedActions
	}
	assert.Equal(t, stats.TotalActions, sumTotal)
	assert.Equal(t, stats.ReversedActions, sumReversed)
}

func TestCalculateReversalStats_Empty(t *testing.T) {
	stats := CalculateReversalStats(nil)
	assert.Zero(t, stats.TotalActions)
	assert.Zero(t, stats.ReversalRate)
	assert.Empty(t, stats.PerModerator)
}

func TestCalculateTimeToReversal(t *testing.T) {
	mod := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no reversals yields zeros", func(t *testing.T) {
		stats := CalculateTimeToReversal([]models.ModerationAction{liveAction(mod)})
		assert.Zero(t, stats.AverageSeconds)
		assert.Zero(t, stats.MedianSeconds)
		assert.Zero(t, stats.MinSeconds)
		assert.Zero(t, stats.MaxSeconds)
	})

	t.Run("odd count", func(t *testing.T) {
		stats := CalculateTimeToReversal([]models.ModerationAction{
			revokedAction(mod, base, 10*time.Second),
			revokedAction(mod, base, 20*time.Second),
			revokedAction(mod, base, 60*time.Second),
			liveAction(mod),
		})
		assert.Equal(t, 30.0, stats.AverageSeconds)
		assert.Equal(t, 20.0, stats.MedianSeconds)
		assert.Equal(t, 10.0, stats.MinSeconds)
		assert.Equal(t, 60.0, stats.MaxSeconds)
	})

	t.Run("even count median averages middle pair", func(t *testing.T) {
		stats := CalculateTimeToReversal([]models.ModerationAction{
			revokedAction(mod, base, 10*time.Second),
			revokedAction(mod, base, 30*time.Second),
		})
		assert.Equal(t, 20.0, stats.MedianSeconds)
	})
}

func TestAlbumVsTrackPercentage(t *testing.T) {
	assert.Equal(t, 0.0, AlbumVsTrackPercentage(0, 0))
	assert.Equal(t, 25.0, AlbumVsTrackPercentage(1, 3))
	assert.Equal(t, 100.0, AlbumVsTrackPercentage(5, 0))
	assert.Equal(t, 33.3, AlbumVsTrackPercentage(1, 2))
}

func TestCascadingActionPercentage(t *testing.T) {
	mod := uuid.New()

	mustJSON := func(md models.ActionMetadata) []byte {
		raw, err := md.JSON()
		require.NoError(t, err)
		return raw
	}

	parentID := uuid.New()
	albumID := uuid.New()

	cascading := liveAction(mod)
	cascading.ActionType = models.ActionContentRemoved
	cascading.Metadata = mustJSON(models.CascadeParentMetadata([]uuid.UUID{uuid.New()}))

	selective := liveAction(mod)
	selective.ActionType = models.ActionContentRemoved
	selective.Metadata = mustJSON(models.SelectiveRemovalMetadata())

	// No cascading marker on any of these; they stay out of the ratio.
	child := liveAction(mod)
	child.ActionType = models.ActionContentRemoved
	child.Metadata = mustJSON(models.CascadeChildMetadata(parentID, albumID))

	plain := liveAction(mod)
	plain.ActionType = models.ActionContentRemoved

	warning := liveAction(mod)

	pct := CascadingActionPercentage([]models.ModerationAction{cascading, selective, child, plain, warning})
	assert.Equal(t, 50.0, pct)

	t.Run("children and plain removals never dilute", func(t *testing.T) {
		childB := liveAction(mod)
		childB.ActionType = models.ActionContentRemoved
		childB.Metadata = mustJSON(models.CascadeChildMetadata(parentID, albumID))

		pct := CascadingActionPercentage([]models.ModerationAction{cascading, selective, child, childB})
		assert.Equal(t, 50.0, pct)
	})

	assert.Equal(t, 0.0, CascadingActionPercentage(nil))
}

func TestCalculateTrendingScores(t *testing.T) {
	track := func(title string, plays, likes int64) models.Track {
		return models.Track{ID: uuid.New(), Title: title, PlayCount: plays, LikeCount: likes}
	}

	t.Run("weighted score and ordering", func(t *testing.T) {
		entries := CalculateTrendingScores([]models.Track{
			track("quiet", 10, 10),
			track("hit", 1000, 500),
			track("likes only", 0, 100),
		})
		require.Len(t, entries, 3)
		assert.Equal(t, "hit", entries[0].Title)
		assert.Equal(t, 1000*0.7+500*0.3, entries[0].Score)
		assert.Equal(t, "likes only", entries[1].Title)
		assert.Equal(t, 30.0, entries[1].Score)
		assert.Equal(t, "quiet", entries[2].Title)
	})

	t.Run("top ten cap", func(t *testing.T) {
		var tracks []models.Track
		for i := 0; i < 15; i++ {
			tracks = append(tracks, track(fmt.Sprintf("t%d", i), int64(i*100), 0))
		}
		entries := CalculateTrendingScores(tracks)
		assert.Len(t, entries, 10)
		assert.Equal(t, "t14", entries[0].Title)
	})

	t.Run("deterministic tie break", func(t *testing.T) {
		a := track("a", 70, 30)
		b := track("b", 70, 30)
		first := CalculateTrendingScores([]models.Track{a, b})
		second := CalculateTrendingScores([]models.Track{b, a})
		assert.Equal(t, first[0].TrackID, second[0].TrackID)
		assert.Equal(t, first[1].TrackID, second[1].TrackID)
	})
}

func TestMetricsService_CachesSnapshot(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	svc := NewMetricsService(repos, time.Minute)

	first, err := svc.GetMetrics()
	require.NoError(t, err)
	assert.Zero(t, first.Reversals.TotalActions)

	// A new action does not show up until the cache is invalidated.
	require.NoError(t, repos.Actions.Create(&models.ModerationAction{
		ID: uuid.New(), ModeratorID: uuid.New(), TargetUserID: uuid.New(),
		ActionType: models.ActionUserWarned, Reason: "r",
	}))

	cached, err := svc.GetMetrics()
	require.NoError(t, err)
	assert.Zero(t, cached.Reversals.TotalActions)

	svc.Invalidate()
	fresh, err := svc.GetMetrics()
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Reversals.TotalActions)
}

func TestAnalyticsService_TrendingWindow(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	store.AddTrack(models.Track{Title: "fresh", PlayCount: 100, CreatedAt: now.Add(-24 * time.Hour)}, uuid.Nil)
	store.AddTrack(models.Track{Title: "stale", PlayCount: 9000, CreatedAt: now.Add(-30 * 24 * time.Hour)}, uuid.Nil)

	svc := NewAnalyticsService(store.Repositories(), time.Minute)
	svc.now = func() time.Time { return now }

	entries, err := svc.Trending(7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Title)

	all, err := svc.Trending(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "stale", all[0].Title)
}
