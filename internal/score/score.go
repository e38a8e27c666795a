package score

import (
	"driveindex/internal/parse"
)

// Thresholds for the review queue. Records below ReviewThreshold need manual
// review; only records below LowConfidenceThreshold additionally carry the
// "low confidence" reason. The two tiers are intentionally distinct: a 0.4
// record needs review without being called low confidence.
const (
	ReviewThreshold        = 0.5
	LowConfidenceThreshold = 0.3
)

// Field weights. Week contributes half weight because many perfectly good
// legacy filenames never carried one.
const (
	weightCoach   = 1.0
	weightStudent = 1.0
	weightWeek    = 0.5
	weightDate    = 1.0
	weightPattern = 0.5
)

// Result is the scorer's verdict on one extraction.
type Result struct {
	Confidence  float64
	NeedsReview bool
	Reasons     []string
}

// Score computes a [0,1] completeness score from which fields were recovered
// and by which parse tier. It is a pure function of the extraction.
func Score(ext *parse.Extraction) Result {
	var earned, factors float64

	add := func(ok bool, weight float64) {
		factors += weight
		if ok {
			earned += weight
		}
	}
	add(ext.CoachKnown(), weightCoach)
	add(ext.StudentKnown(), weightStudent)
	add(ext.WeekKnown(), weightWeek)
	add(ext.DateKnown(), weightDate)
	add(ext.PatternParsed(), weightPattern)

	confidence := 0.0
	if factors > 0 {
		confidence = earned / factors
	}

	var reasons []string
	if !ext.CoachKnown() {
		reasons = append(reasons, "missing coach")
	}
	if !ext.StudentKnown() {
		reasons = append(reasons, "missing student")
	}
	if !ext.DateKnown() {
		reasons = append(reasons, "missing date")
	}
	reasons = append(reasons, ext.ReviewHints...)
	if confidence < LowConfidenceThreshold {
		reasons = append(reasons, "low confidence")
	}

	needsReview := confidence < ReviewThreshold || len(ext.ReviewHints) > 0

	result := Result{Confidence: confidence, NeedsReview: needsReview}
	if needsReview {
		result.Reasons = reasons
	}
	return result
}
