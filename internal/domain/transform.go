package domain

import (
	"strconv"
	"strings"
)

// CloseApproachForDate returns the first close-approach sub-record whose
// date equals the target date, and whether one was found. The feed is not
// structurally prevented from listing the same date twice; the first match
// wins.
func CloseApproachForDate(raw RawNeoRecord, date string) (CloseApproach, bool) {
	for _, approach := range raw.CloseApproachData {
		if approach.CloseApproachDate == date {
			return approach, true
		}
	}
	return CloseApproach{}, false
}

// TransformRecord normalizes a raw feed record into a NearEarthObject for
// the given date. It returns false when the record has no close-approach
// sub-record for that date, in which case the record must be skipped.
//
// Miss distance converts from kilometers to meters and relative velocity
// from km/s to m/s. Missing or unparseable numeric fields become 0 and a
// missing hazardous flag false.
func TransformRecord(raw RawNeoRecord, date string) (NearEarthObject, bool) {
	approach, ok := CloseApproachForDate(raw, date)
	if !ok {
		return NearEarthObject{}, false
	}

	return NearEarthObject{
		NeoReferenceID:       raw.NeoReferenceID,
		CloseApproachDate:    date,
		Name:                 raw.Name,
		EstimatedDiameterMin: raw.EstimatedDiameter.Meters.Min,
		EstimatedDiameterMax: raw.EstimatedDiameter.Meters.Max,
		IsHazardous:          raw.IsPotentiallyHazardousAsteroid,
		AbsoluteMagnitude:    raw.AbsoluteMagnitudeH,
		MissDistance:         parseFloatOrZero(approach.MissDistance.Kilometers) * 1000,
		RelativeVelocity:     parseFloatOrZero(approach.RelativeVelocity.KilometersPerSecond) * 1000,
	}, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
