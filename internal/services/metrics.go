package services

import (
	"math"
	"sort"

	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
)

const trendingLimit = 10

// Trending score weights. Plays dominate likes.
const (
	trendingPlayWeight = 0.7
	trendingLikeWeight = 0.3
)

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// CalculateReversalStats computes the overall and per-moderator reversal
// rates. Per-moderator totals always sum to the overall totals.
func CalculateReversalStats(actions []models.ModerationAction) dto.ReversalStats {
	stats := dto.ReversalStats{
		PerModerator: make(map[string]dto.ModeratorStats),
	}
	for i := range actions {
		a := &actions[i]
		stats.TotalActions++
		key := a.ModeratorID.String()
		ms := stats.PerModerator[key]
		ms.TotalActions++
		if a.Revoked() {
			stats.ReversedActions++
			ms.ReversedActions++
		}
		stats.PerModerator[key] = ms
	}
	if stats.TotalActions > 0 {
		stats.ReversalRate = round1(float64(stats.ReversedActions) / float64(stats.TotalActions) * 100)
	}
	for key, ms := range stats.PerModerator {
		if ms.TotalActions > 0 {
			ms.ReversalRate = round1(float64(ms.ReversedActions) / float64(ms.TotalActions) * 100)
		}
		stats.PerModerator[key] = ms
	}
	return stats
}

// CalculateTimeToReversal computes average, median, min and max seconds
// between an action and its reversal. All fields are zero when no action
// has been reversed.
func CalculateTimeToReversal(actions []models.ModerationAction) dto.TimeToReversalStats {
	var durations []float64
	for i := range actions {
		a := &actions[i]
		if !a.Revoked() {
			continue
		}
		seconds := a.RevokedAt.Sub(a.CreatedAt).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		durations = append(durations, seconds)
	}
	if len(durations) == 0 {
		return dto.TimeToReversalStats{}
	}

	sort.Float64s(durations)
	var sum float64
	for _, d := range durations {
		sum += d
	}
	n := len(durations)
	median := durations[n/2]
	if n%2 == 0 {
		median = (durations[n/2-1] + durations[n/2]) / 2
	}
	return dto.TimeToReversalStats{
		AverageSeconds: sum / float64(n),
		MedianSeconds:  median,
		MinSeconds:     durations[0],
		MaxSeconds:     durations[n-1],
	}
}

// AlbumVsTrackPercentage returns the share of album reports among
// album and track reports combined, rounded to one decimal. Zero when
// both counts are zero.
func AlbumVsTrackPercentage(albumReports, trackReports int64) float64 {
	total := albumReports + trackReports
	if total == 0 {
		return 0
	}
	return round1(float64(albumReports) / float64(total) * 100)
}

// CascadingActionPercentage returns the share of album removals that
// were cascading rather than selective, rounded to one decimal. Only
// removals carrying the cascading_action marker count: cascade child
// records and plain track or post removals have no marker and stay out
// of the ratio.
func CascadingActionPercentage(actions []models.ModerationAction) float64 {
	var flagged, cascading int
	for i := range actions {
		a := &actions[i]
		if a.ActionType != models.ActionContentRemoved {
			continue
		}
		md, err := models.ParseActionMetadata(a.Metadata)
		if err != nil {
			continue
		}
		value, ok := md.IsCascading()
		if !ok {
			continue
		}
		flagged++
		if value {
			cascading++
		}
	}
	if flagged == 0 {
		return 0
	}
	return round1(float64(cascading) / float64(flagged) * 100)
}

// CalculateTrendingScores ranks tracks by weighted engagement and returns
// the top entries. The ordering is deterministic: ties on score break by
// play count, then by track ID.
func CalculateTrendingScores(tracks []models.Track) []dto.TrendingEntry {
	entries := make([]dto.TrendingEntry, 0, len(tracks))
	for i := range tracks {
		t := &tracks[i]
		score := float64(t.PlayCount)*trendingPlayWeight + float64(t.LikeCount)*trendingLikeWeight
		entries = append(entries, dto.TrendingEntry{
			TrackID:   t.ID,
			Title:     t.Title,
			PlayCount: t.PlayCount,
			LikeCount: t.LikeCount,
			Score:     score,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].PlayCount != entries[j].PlayCount {
			return entries[i].PlayCount > entries[j].PlayCount
		}
		return entries[i].TrackID.String() < entries[j].TrackID.String()
	})
	if len(entries) > trendingLimit {
		entries = entries[:trendingLimit]
	}
	return entries
}
