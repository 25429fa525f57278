package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kidmood/kidmood-api/internal/domain"
)

// SummaryStats is the reduced view handed to the text-generation
// collaborator.
type SummaryStats struct {
	Buckets          map[string]int `json:"buckets"`
	Total            int            `json:"total"`
	TimeSeriesLength int            `json:"timeSeriesLength"`
}

type TextGenerator interface {
	GenerateSummary(ctx context.Context, stats SummaryStats) (string, error)
}

type SummaryText struct {
	SummaryText string `json:"summaryText"`
	TopEmotion  string `json:"topEmotion"`
	Total       int    `json:"total"`
}

// SummaryService aggregates scoped check-ins into buckets and a
// per-day time series, and derives CSV and prose views from them.
type SummaryService struct {
	checkins CheckinRepository
	scope    ScopeResolver
	insight  TextGenerator
}

func NewSummaryService(checkins CheckinRepository, scope ScopeResolver, insight TextGenerator) *SummaryService {
	return &SummaryService{
		checkins: checkins,
		scope:    scope,
		insight:  insight,
	}
}

// Summarize aggregates the caller's scope over [from, to]. Scope or
// backend faults degrade to an empty-but-valid summary; dashboards on
// a fresh classroom must never fail.
func (s *SummaryService) Summarize(ctx context.Context, identity domain.Identity, from, to time.Time) domain.Summary {
	scope, err := s.scope.Resolve(ctx, identity)
	if err != nil {
		zap.L().Warn("summary degraded to empty result", zap.Error(err))

		return domain.EmptySummary()
	}

	return Aggregate(s.checkins.List(ctx, scope, from, to))
}

// Aggregate computes the emotion histogram and the per-day time series
// in one pass. Unknown emotions land in an explicit "unknown" bucket so
// Total always equals the bucket sum.
func Aggregate(checkins []domain.Checkin) domain.Summary {
	summary := domain.EmptySummary()
	days := map[string]map[string]int{}

	for _, c := range checkins {
		emotion := c.Emotion
		if !domain.ValidEmotion(emotion) {
			emotion = domain.EmotionUnknown
		}

		summary.Buckets[emotion]++
		summary.Total++

		day := c.Day()
		if days[day] == nil {
			days[day] = map[string]int{}
		}
		days[day][emotion]++
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		summary.TimeSeries = append(summary.TimeSeries, domain.DayBuckets{
			Date:    date,
			Buckets: days[date],
		})
	}

	return summary
}

// CSV flattens the time series into date,emotion,count rows, one row
// per nonzero cell.
func (s *SummaryService) CSV(ctx context.Context, identity domain.Identity, from, to time.Time) ([]byte, error) {
	summary := s.Summarize(ctx, identity, from, to)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "emotion", "count"}); err != nil {
		return nil, fmt.Errorf("w.Write -> %w", err)
	}

	emotions := append(append([]string{}, domain.Emotions...), domain.EmotionUnknown)
	for _, day := range summary.TimeSeries {
		for _, emotion := range emotions {
			count := day.Buckets[emotion]
			if count == 0 {
				continue
			}
			if err := w.Write([]string{day.Date, emotion, strconv.Itoa(count)}); err != nil {
				return nil, fmt.Errorf("w.Write -> %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("w.Error -> %w", err)
	}

	return buf.Bytes(), nil
}

// Text produces a prose summary. The external collaborator is
// preferred; on any failure the deterministic template takes over, so
// the endpoint never depends on the network.
func (s *SummaryService) Text(ctx context.Context, identity domain.Identity, from, to time.Time) SummaryText {
	summary := s.Summarize(ctx, identity, from, to)
	top, second := topEmotions(summary.Buckets)

	text := ""
	if s.insight != nil {
		generated, err := s.insight.GenerateSummary(ctx, SummaryStats{
			Buckets:          summary.Buckets,
			Total:            summary.Total,
			TimeSeriesLength: len(summary.TimeSeries),
		})
		if err != nil {
			zap.L().Debug("insight generator unavailable, using template", zap.Error(err))
		} else {
			text = generated
		}
	}

	if text == "" {
		text = templateSummary(summary, top, second)
	}

	return SummaryText{
		SummaryText: text,
		TopEmotion:  top,
		Total:       summary.Total,
	}
}

// topEmotions picks the two most frequent buckets, breaking ties
// alphabetically so the fallback text is deterministic.
func topEmotions(buckets map[string]int) (string, string) {
	type pair struct {
		emotion string
		count   int
	}

	pairs := make([]pair, 0, len(buckets))
	for emotion, count := range buckets {
		if count > 0 {
			pairs = append(pairs, pair{emotion, count})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}

		return pairs[i].emotion < pairs[j].emotion
	})

	switch len(pairs) {
	case 0:
		return "", ""
	case 1:
		return pairs[0].emotion, ""
	default:
		return pairs[0].emotion, pairs[1].emotion
	}
}

func templateSummary(summary domain.Summary, top, second string) string {
	if summary.Total == 0 {
		return "No check-ins in this period yet."
	}

	text := fmt.Sprintf("The class logged %d check-ins across %d days. The most common feeling was %q",
		summary.Total, len(summary.TimeSeries), top)
	if second != "" {
		text += fmt.Sprintf(", followed by %q", second)
	}

	return text + "."
}
