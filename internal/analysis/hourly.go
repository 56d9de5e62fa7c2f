package analysis

import (
	"math"
	"sort"

	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
	"github.com/montanaflynn/stats"
)

// HourlyAnalyzer derives traffic patterns from an hourly distribution
type HourlyAnalyzer struct {
	zScoreThreshold float64
	peakHours       int
}

// NewHourlyAnalyzer creates an analyzer. Zero values select the defaults.
func NewHourlyAnalyzer(zScoreThreshold float64, peakHours int) *HourlyAnalyzer {
	if zScoreThreshold == 0 {
		zScoreThreshold = config.DefaultAnomalySettings.ZScoreThreshold
	}
	if peakHours == 0 {
		peakHours = config.DefaultAnomalySettings.PeakHours
	}
	return &HourlyAnalyzer{
		zScoreThreshold: zScoreThreshold,
		peakHours:       peakHours,
	}
}

// Analyze summarises the hourly distribution of result
func (h *HourlyAnalyzer) Analyze(result *models.AnalysisResult) *models.TrafficPatterns {
	patterns := &models.TrafficPatterns{
		PeakHours:       make([]int, 0),
		LowTrafficHours: make([]int, 0),
		AnomalousHours:  make([]models.HourAnomaly, 0),
	}
	if result.TotalRequests == 0 {
		return patterns
	}

	counts := make([]float64, models.HoursPerDay)
	for hour, count := range result.HourlyDistribution {
		counts[hour] = float64(count)
	}

	patterns.MeanPerHour, _ = stats.Mean(counts)
	patterns.StdDevPerHour, _ = stats.StandardDeviation(counts)

	hours := make([]int, models.HoursPerDay)
	for i := range hours {
		hours[i] = i
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return result.HourlyDistribution[hours[i]] > result.HourlyDistribution[hours[j]]
	})

	n := h.peakHours
	if n > len(hours) {
		n = len(hours)
	}
	patterns.PeakHours = append(patterns.PeakHours, hours[:n]...)
	for i := len(hours) - n; i < len(hours); i++ {
		patterns.LowTrafficHours = append(patterns.LowTrafficHours, hours[i])
	}
	sort.Ints(patterns.LowTrafficHours)

	if patterns.StdDevPerHour == 0 {
		return patterns
	}
	for hour, count := range result.HourlyDistribution {
		z := (float64(count) - patterns.MeanPerHour) / patterns.StdDevPerHour
		if math.Abs(z) >= h.zScoreThreshold {
			patterns.AnomalousHours = append(patterns.AnomalousHours, models.HourAnomaly{
				Hour:   hour,
				Count:  count,
				ZScore: z,
			})
		}
	}

	return patterns
}
