package record

import (
	"fmt"
	"path"
	"strings"
	"time"

	"driveindex/internal/classify"
	"driveindex/internal/parse"
	"driveindex/internal/score"
	"driveindex/internal/walker"
)

// Priority levels for operator triage.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// SessionInfo captures the when/what of a session.
type SessionInfo struct {
	Type            string
	Date            *time.Time
	Week            string
	DurationMinutes int
	IsNoShow        bool
}

// Participants carries both the raw extracted names and their canonical forms.
type Participants struct {
	Coach             string
	Student           string
	CoachNormalized   string
	StudentNormalized string
}

// DataQuality summarizes how much identifying metadata was recovered.
type DataQuality struct {
	HasCoach   bool
	HasStudent bool
	HasWeek    bool
	HasDate    bool
	Confidence float64
}

// Session is the persisted unit: one indexed recording.
type Session struct {
	FileID        string
	Title         string
	Description   string
	SessionInfo   SessionInfo
	Participants  Participants
	Subjects      []string
	Tags          []string
	Priority      string
	DataQuality   DataQuality
	NeedsReview   bool
	ReviewReasons []string
	FolderPath    string
	WebViewLink   string
	ParseMethod   string
	WasPatched    bool
	PatchApplied  string
	IndexedAt     time.Time
}

var typePhrases = map[string]string{
	"168-hour":  "168-hour first session",
	"game-plan": "Game plan session",
	"crisis":    "Crisis support session",
	"parent":    "Parent meeting",
	"no-show":   "No-show session",
	"trivial":   "Brief check-in",
}

var typeDurations = map[string]int{
	"168-hour":  90,
	"game-plan": 60,
	"no-show":   0,
	"trivial":   15,
}

const defaultDurationMinutes = 45

var highPriorityTypes = map[string]struct{}{
	"168-hour":  {},
	"game-plan": {},
	"crisis":    {},
	"parent":    {},
}

var lowPriorityTypes = map[string]struct{}{
	"no-show": {},
	"trivial": {},
}

// Build assembles the session record for one file from the extraction and
// scoring results. Pure function of its inputs plus the supplied clock time.
func Build(file walker.Entry, folderPath string, ext parse.Extraction, sc score.Result, now time.Time) Session {
	session := Session{
		FileID: file.ID,
		Title:  buildTitle(ext),
		SessionInfo: SessionInfo{
			Type:            ext.SessionType,
			Date:            ext.Date,
			Week:            ext.Week,
			DurationMinutes: durationFor(ext.SessionType),
			IsNoShow:        ext.SessionType == "no-show",
		},
		Participants: Participants{
			Coach:             ext.Coach,
			Student:           ext.Student,
			CoachNormalized:   ext.CoachNorm,
			StudentNormalized: ext.StudentNorm,
		},
		Subjects: append([]string(nil), ext.Subjects...),
		Priority: priorityFor(ext.SessionType),
		DataQuality: DataQuality{
			HasCoach:   ext.CoachKnown(),
			HasStudent: ext.StudentKnown(),
			HasWeek:    ext.WeekKnown(),
			HasDate:    ext.DateKnown(),
			Confidence: sc.Confidence,
		},
		NeedsReview:   sc.NeedsReview,
		ReviewReasons: append([]string(nil), sc.Reasons...),
		FolderPath:    folderPath,
		WebViewLink:   file.WebViewLink,
		ParseMethod:   ext.ParseMethod,
		WasPatched:    ext.WasPatched,
		PatchApplied:  ext.PatchApplied,
		IndexedAt:     now,
	}
	session.Description = buildDescription(ext, file.Description)
	session.Tags = buildTags(ext)
	return session
}

// Fallback produces the minimal record for a file whose extraction failed
// unexpectedly. The file is never dropped: the raw name becomes the title,
// confidence is zero, and the failure message is preserved for the operator.
func Fallback(file walker.Entry, folderPath string, cause error, now time.Time) Session {
	description := "Indexing failed"
	if cause != nil {
		description = fmt.Sprintf("Indexing failed: %v", cause)
	}
	return Session{
		FileID:      file.ID,
		Title:       file.Name,
		Description: description,
		SessionInfo: SessionInfo{
			Type:            classify.TypeRegular,
			Week:            parse.UnknownWeek,
			DurationMinutes: defaultDurationMinutes,
		},
		Participants: Participants{
			Coach:             parse.UnknownCoach,
			Student:           parse.UnknownStudent,
			CoachNormalized:   parse.UnknownCoach,
			StudentNormalized: parse.UnknownStudent,
		},
		Subjects:      []string{classify.SubjectGeneral},
		Tags:          []string{classify.TypeRegular, classify.SubjectGeneral},
		Priority:      PriorityNormal,
		DataQuality:   DataQuality{Confidence: 0},
		NeedsReview:   true,
		ReviewReasons: []string{"extraction failed"},
		FolderPath:    folderPath,
		WebViewLink:   file.WebViewLink,
		ParseMethod:   parse.MethodNone,
		IndexedAt:     now,
	}
}

func buildTitle(ext parse.Extraction) string {
	if ext.CoachKnown() && ext.StudentKnown() {
		title := fmt.Sprintf("%s & %s", ext.CoachNorm, ext.StudentNorm)
		if ext.WeekKnown() {
			title += fmt.Sprintf(" - Week %s", ext.Week)
		}
		return title
	}
	return cleanFilename(ext.Raw)
}

func buildDescription(ext parse.Extraction, original string) string {
	phrase, ok := typePhrases[ext.SessionType]
	if !ok {
		phrase = "Coaching session"
	}
	parts := []string{phrase}
	if ext.CoachKnown() {
		parts = append(parts, "with "+ext.CoachNorm)
	}
	if subjects := describableSubjects(ext.Subjects); subjects != "" {
		parts = append(parts, "covering "+subjects)
	}
	if ext.DateKnown() {
		parts = append(parts, "on "+ext.Date.Format("2006-01-02"))
	}
	description := strings.Join(parts, " ")
	if original != "" {
		description += ". " + original
	}
	return description
}

func describableSubjects(subjects []string) string {
	if len(subjects) == 0 {
		return ""
	}
	if len(subjects) == 1 && subjects[0] == classify.SubjectGeneral {
		return ""
	}
	return strings.Join(subjects, ", ")
}

func buildTags(ext parse.Extraction) []string {
	var tags []string
	seen := map[string]struct{}{}
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if ext.CoachKnown() {
		add(ext.CoachNorm)
	}
	if ext.StudentKnown() {
		add(strings.ToLower(ext.StudentNorm))
	}
	add(ext.SessionType)
	for _, subject := range ext.Subjects {
		add(subject)
	}
	if ext.WeekKnown() {
		add("week-" + ext.Week)
	}
	if ext.DateKnown() {
		add("year-" + ext.Date.Format("2006"))
	}
	add(ext.ParseMethod)
	return tags
}

func durationFor(sessionType string) int {
	if minutes, ok := typeDurations[sessionType]; ok {
		return minutes
	}
	return defaultDurationMinutes
}

func priorityFor(sessionType string) string {
	if _, ok := highPriorityTypes[sessionType]; ok {
		return PriorityHigh
	}
	if _, ok := lowPriorityTypes[sessionType]; ok {
		return PriorityLow
	}
	return PriorityNormal
}

func cleanFilename(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	cleaned := strings.ReplaceAll(base, "_", " ")
	return strings.Join(strings.Fields(cleaned), " ")
}
