package domain

import (
	"math"
	"sort"
	"time"
)

// Base points per task category. Unknown categories fall back to 25.
var taskBasePoints = map[TaskCategory]int{
	CategoryHearing:          100,
	CategoryFatalDeadline:    90,
	CategoryFiling:           80,
	CategoryAnalysis:         70,
	CategoryDiligence:        60,
	CategoryOrdinaryDeadline: 50,
	CategoryMeeting:          40,
	CategoryClientContact:    30,
	CategoryOther:            25,
	CategoryAdministrative:   20,
}

// Score multiplier per priority. Unknown priorities fall back to 1.0.
var priorityMultipliers = map[TaskPriority]float64{
	PriorityLow:    0.8,
	PriorityMedium: 1.0,
	PriorityHigh:   1.3,
	PriorityUrgent: 1.5,
}

// TaskScore computes the point value of a task from its category and priority.
// Fractional products are rounded half away from zero (math.Round), so
// other(25) x high(1.3) = 32.5 yields 33.
func TaskScore(category TaskCategory, priority TaskPriority) int {
	base, ok := taskBasePoints[category]
	if !ok {
		base = 25
	}
	mult, ok := priorityMultipliers[priority]
	if !ok {
		mult = 1.0
	}
	return int(math.Round(float64(base) * mult))
}

// ClassifyAlert maps a due date to an alert level relative to now.
//
// Day boundaries are whole 24h periods of absolute elapsed time, floored,
// not calendar days: a due date 1h in the past is already overdue, and a due
// date 27h ahead is critical (1 whole day). Both timestamps are compared in
// UTC. A nil due date is always normal.
func ClassifyAlert(due *time.Time, now time.Time) AlertLevel {
	if due == nil {
		return AlertNormal
	}
	diff := due.UTC().Sub(now.UTC())
	days := int(math.Floor(diff.Hours() / 24))

	switch {
	case days < 0:
		return AlertOverdue
	case days == 0:
		return AlertFatal
	case days == 1:
		return AlertCritical
	case days <= 3:
		return AlertWarning
	case days <= 7:
		return AlertAttention
	default:
		return AlertNormal
	}
}

// CompletionGroup is one (user, category) bucket of completed tasks, as
// returned by the aggregation query.
type CompletionGroup struct {
	UserID     string
	Category   TaskCategory
	Tasks      int
	TotalScore int
}

// RankingEntry is one row of the productivity ranking.
type RankingEntry struct {
	UserID          string               `json:"user_id"`
	TotalScore      int                  `json:"total_score"`
	TasksCompleted  int                  `json:"tasks_completed"`
	TasksByCategory map[TaskCategory]int `json:"tasks_by_category"`
	Rank            int                  `json:"rank"`
}

// BuildRanking folds per-category completion groups into a ranking ordered by
// total score descending. Equal scores are broken by ascending user id so the
// order is deterministic. Ranks are consecutive 1-based positions.
func BuildRanking(groups []CompletionGroup) []RankingEntry {
	byUser := make(map[string]*RankingEntry)
	var order []string

	for _, g := range groups {
		entry, ok := byUser[g.UserID]
		if !ok {
			entry = &RankingEntry{
				UserID:          g.UserID,
				TasksByCategory: make(map[TaskCategory]int),
			}
			byUser[g.UserID] = entry
			order = append(order, g.UserID)
		}
		entry.TotalScore += g.TotalScore
		entry.TasksCompleted += g.Tasks
		entry.TasksByCategory[g.Category] += g.Tasks
	}

	entries := make([]RankingEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byUser[id])
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// OwnScore extracts userID's entry from a ranking. Users with no completions
// in the window get a zero-value placeholder ranked after everyone else.
func OwnScore(ranking []RankingEntry, userID string) RankingEntry {
	for _, entry := range ranking {
		if entry.UserID == userID {
			return entry
		}
	}
	return RankingEntry{
		UserID:          userID,
		TasksByCategory: map[TaskCategory]int{},
		Rank:            len(ranking) + 1,
	}
}
