// Package domain models NASA near-Earth-object (NEO) close-approach data.
//
// # Data Source
//
// Records originate from the NASA NeoWs feed API
// (https://api.nasa.gov/neo/rest/v1/feed), queried one calendar date at a
// time. The feed response groups raw NEO records under a
// "near_earth_objects" map keyed by date string, and each record carries a
// list of close-approach sub-records for different dates.
//
// # Units
//
// The feed reports miss distance in kilometers and relative velocity in
// kilometers per second, both as numeric strings. They are converted to
// meters and meters per second at ingest (multiply by 1000). Estimated
// diameters are taken from the feed's meters block as-is.
//
// Missing numeric fields are treated as zero and a missing hazardous flag
// as false, mirroring the feed's sparse records rather than rejecting them.
//
// # Natural Keys
//
// A stored NEO row is identified by (neo_reference_id, close_approach_date).
// Re-ingesting the same object for the same date updates the existing row.
// A daily analysis row is identified by its analysis_date. Both keys enable
// idempotent upserts so repeated runs for one date never duplicate data.
//
// # Dates
//
// Calendar dates are carried as "YYYY-MM-DD" strings end to end: the feed
// keys records by date string, close-approach matching is exact string
// equality, and lexical order of the format equals chronological order, so
// range filters and ordering work directly on the stored form.
//
// # Rounding
//
// Aggregate metrics are rounded to 2 decimal places using round half away
// from zero (math.Round), applied once to the final aggregate value.
// See [Round2].
package domain
