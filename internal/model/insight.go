package model

import "time"

// Insight is a row in the `health_insights` table.  Insights are produced
// by an analysis pipeline outside this service and surfaced to the user as
// read-only cards; the only mutation the API performs is marking one read.
//
// Fields:
//
//	ID              – primary key identifier.
//	UserID          – user the insight belongs to.
//	InsightType     – category such as recommendation, trend or alert.
//	Title           – short headline.
//	Description     – full insight text.
//	Severity        – info, warning or critical.
//	ConfidenceScore – confidence in the range [0,1].
//	IsRead          – whether the user has dismissed the insight.
//	CreatedAt       – creation timestamp.
type Insight struct {
	ID              uint64    // health_insights.id
	UserID          uint64    // health_insights.user_id
	InsightType     string    // health_insights.insight_type
	Title           string    // health_insights.title
	Description     string    // health_insights.description
	Severity        string    // health_insights.severity
	ConfidenceScore float64   // health_insights.confidence_score
	IsRead          bool      // health_insights.is_read
	CreatedAt       time.Time // health_insights.created_at
}
