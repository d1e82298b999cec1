package models

// Severity is a three-level coarse bucket derived from confidence, used for
// display emphasis.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// SeverityForConfidence derives the severity bucket from an integer confidence
// percentage. This is the only severity mapping in the application; every page
// of the scan journey goes through it.
func SeverityForConfidence(confidence int) Severity {
	switch {
	case confidence > 80:
		return SeverityHigh
	case confidence > 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
