package domain

import "time"

// DateFormat is the calendar date layout used by the feed and the stores.
const DateFormat = "2006-01-02"

// RawNeoRecord is one near-Earth object as delivered by the provider feed.
// Numeric sub-fields that may be absent decode to their zero values; the
// transform treats those as 0 (or false for the hazardous flag).
type RawNeoRecord struct {
	NeoReferenceID                 string            `json:"neo_reference_id"`
	Name                           string            `json:"name"`
	AbsoluteMagnitudeH             float64           `json:"absolute_magnitude_h"`
	IsPotentiallyHazardousAsteroid bool              `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter              EstimatedDiameter `json:"estimated_diameter"`
	CloseApproachData              []CloseApproach   `json:"close_approach_data"`
}

// EstimatedDiameter holds the feed's diameter estimate in meters.
type EstimatedDiameter struct {
	Meters DiameterRange `json:"meters"`
}

// DiameterRange is the feed's min/max diameter estimate.
type DiameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

// CloseApproach is one dated close-approach sub-record. Distance and
// velocity arrive as numeric strings.
type CloseApproach struct {
	CloseApproachDate string           `json:"close_approach_date"`
	MissDistance      MissDistance     `json:"miss_distance"`
	RelativeVelocity  RelativeVelocity `json:"relative_velocity"`
}

// MissDistance is the feed's miss distance block.
type MissDistance struct {
	Kilometers string `json:"kilometers"`
}

// RelativeVelocity is the feed's relative velocity block.
type RelativeVelocity struct {
	KilometersPerSecond string `json:"kilometers_per_second"`
}

// NearEarthObject is the normalized per-object row, one per object per
// close-approach date. MissDistance is in meters, RelativeVelocity in
// meters per second.
type NearEarthObject struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	NeoReferenceID       string    `gorm:"uniqueIndex:idx_neo_ref_date;not null" json:"neo_reference_id"`
	CloseApproachDate    string    `gorm:"uniqueIndex:idx_neo_ref_date;type:varchar(10);not null" json:"close_approach_date"`
	Name                 string    `json:"name"`
	EstimatedDiameterMin float64   `json:"estimated_diameter_min"`
	EstimatedDiameterMax float64   `json:"estimated_diameter_max"`
	IsHazardous          bool      `json:"is_hazardous"`
	AbsoluteMagnitude    float64   `json:"absolute_magnitude"`
	MissDistance         float64   `json:"miss_distance"`
	RelativeVelocity     float64   `json:"relative_velocity"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DailyAnalysis is the summary row over all NEOs observed for one date.
// The linked object set reflects the rows present at the most recent
// aggregation run for that date.
type DailyAnalysis struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	AnalysisDate         string    `gorm:"uniqueIndex;type:varchar(10);not null" json:"analysis_date"`
	TotalNeoCount        int       `json:"total_neo_count"`
	AverageDiameterMin   float64   `json:"average_diameter_min"`
	AverageDiameterMax   float64   `json:"average_diameter_max"`
	MaxVelocity          float64   `json:"max_velocity"`
	SmallestMissDistance float64   `json:"smallest_miss_distance"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	NearEarthObjects []NearEarthObject `gorm:"many2many:daily_analysis_near_earth_objects" json:"-"`
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
// The round-trip check rejects inputs the parser would normalize, such as
// "2025-1-01" or "2025-02-30".
func ValidDate(s string) bool {
	t, err := time.Parse(DateFormat, s)
	return err == nil && t.Format(DateFormat) == s
}
