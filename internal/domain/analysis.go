package domain

import "math"

// AnalysisMetrics are the computed summary statistics for one date.
type AnalysisMetrics struct {
	TotalNeoCount        int
	AverageDiameterMin   float64
	AverageDiameterMax   float64
	MaxVelocity          float64
	SmallestMissDistance float64
}

// CalculateMetrics computes summary statistics over the given NEO rows.
// Averages, max velocity, and smallest miss distance are rounded once, on
// the final value. An empty slice yields the zero metrics; callers decide
// whether an empty date is an error.
func CalculateMetrics(neos []NearEarthObject) AnalysisMetrics {
	if len(neos) == 0 {
		return AnalysisMetrics{}
	}

	var sumMin, sumMax float64
	maxVelocity := neos[0].RelativeVelocity
	smallestMiss := neos[0].MissDistance

	for _, neo := range neos {
		sumMin += neo.EstimatedDiameterMin
		sumMax += neo.EstimatedDiameterMax
		if neo.RelativeVelocity > maxVelocity {
			maxVelocity = neo.RelativeVelocity
		}
		if neo.MissDistance < smallestMiss {
			smallestMiss = neo.MissDistance
		}
	}

	n := float64(len(neos))
	return AnalysisMetrics{
		TotalNeoCount:        len(neos),
		AverageDiameterMin:   Round2(sumMin / n),
		AverageDiameterMax:   Round2(sumMax / n),
		MaxVelocity:          Round2(maxVelocity),
		SmallestMissDistance: Round2(smallestMiss),
	}
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
