package services

import (
	"sort"
	"strings"
	"time"

	"legalcase_app_go/models"
)

// TopStatsEntries bounds the issue and recommendation rankings
const TopStatsEntries = 5

// ComputeAnalysisStats rolls up the analyses of one case aggregate.
// Averages and rankings only consider completed analyses. Processing runs
// count as pending.
func ComputeAnalysisStats(analyses []models.AnalysisResult, lastAnalyzedAt *time.Time) models.CaseAnalysisStats {
	stats := models.CaseAnalysisStats{
		TotalAnalyses:      len(analyses),
		TopLegalIssues:     []string{},
		TopRecommendations: []string{},
	}

	var (
		viabilitySum, confidenceSum float64
		issues, actions             []string
		newestCompletion            *time.Time
	)

	for _, a := range analyses {
		switch a.Status {
		case models.AnalysisStatusCompleted:
			stats.CompletedAnalyses++
			viabilitySum += a.ViabilityScore
			confidenceSum += a.ConfidenceScore
			issues = append(issues, a.KeyLegalIssues...)
			for _, r := range a.Recommendations {
				if strings.TrimSpace(r.Action) != "" {
					actions = append(actions, r.Action)
				}
			}
			if a.CompletedAt != nil && (newestCompletion == nil || a.CompletedAt.After(*newestCompletion)) {
				newestCompletion = a.CompletedAt
			}
		case models.AnalysisStatusPending, models.AnalysisStatusProcessing:
			stats.PendingAnalyses++
		case models.AnalysisStatusFailed:
			stats.FailedAnalyses++
		}
	}

	if stats.CompletedAnalyses > 0 {
		n := float64(stats.CompletedAnalyses)
		avgViability := viabilitySum / n
		avgConfidence := confidenceSum / n
		stats.AverageViabilityScore = &avgViability
		stats.AverageConfidenceScore = &avgConfidence
	}

	stats.TopLegalIssues = topByFrequency(issues, TopStatsEntries)
	stats.TopRecommendations = topByFrequency(actions, TopStatsEntries)

	stats.LastAnalyzedAt = lastAnalyzedAt
	if stats.LastAnalyzedAt == nil {
		stats.LastAnalyzedAt = newestCompletion
	}
	return stats
}

// topByFrequency ranks values by count, ties broken by first appearance
func topByFrequency(values []string, limit int) []string {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
