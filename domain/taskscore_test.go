package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskScore_Table(t *testing.T) {
	cases := []struct {
		name     string
		category TaskCategory
		priority TaskPriority
		want     int
	}{
		{"hearing urgent", CategoryHearing, PriorityUrgent, 150},
		{"hearing medium", CategoryHearing, PriorityMedium, 100},
		{"fatal deadline high", CategoryFatalDeadline, PriorityHigh, 117},
		{"filing low", CategoryFiling, PriorityLow, 64},
		{"analysis high", CategoryAnalysis, PriorityHigh, 91},
		{"diligence urgent", CategoryDiligence, PriorityUrgent, 90},
		{"ordinary deadline medium", CategoryOrdinaryDeadline, PriorityMedium, 50},
		{"meeting low", CategoryMeeting, PriorityLow, 32},
		{"client contact high", CategoryClientContact, PriorityHigh, 39},
		{"administrative low", CategoryAdministrative, PriorityLow, 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TaskScore(tc.category, tc.priority))
		})
	}
}

func TestTaskScore_RoundsHalfAwayFromZero(t *testing.T) {
	// other(25) x high(1.3) = 32.5 -> 33, not 32.
	assert.Equal(t, 33, TaskScore(CategoryOther, PriorityHigh))
}

func TestTaskScore_UnknownValuesFallBack(t *testing.T) {
	// Unknown category defaults to 25 base points.
	assert.Equal(t, 25, TaskScore(TaskCategory("bogus"), PriorityMedium))
	// Unknown priority defaults to 1.0 multiplier.
	assert.Equal(t, 100, TaskScore(CategoryHearing, TaskPriority("bogus")))
	// Both unknown.
	assert.Equal(t, 25, TaskScore(TaskCategory(""), TaskPriority("")))
}

func TestTaskScore_Deterministic(t *testing.T) {
	for _, cat := range []TaskCategory{CategoryHearing, CategoryFiling, CategoryOther} {
		for _, prio := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
			first := TaskScore(cat, prio)
			assert.GreaterOrEqual(t, first, 0)
			assert.Equal(t, first, TaskScore(cat, prio))
		}
	}
}

func TestClassifyAlert_Buckets(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  time.Time
		want AlertLevel
	}{
		{"two days past", now.Add(-48 * time.Hour), AlertOverdue},
		{"one hour past", now.Add(-time.Hour), AlertOverdue},
		{"due this instant plus 1h", now.Add(time.Hour), AlertFatal},
		{"due in 23h", now.Add(23 * time.Hour), AlertFatal},
		{"due in 1 day 3h", now.Add(27 * time.Hour), AlertCritical},
		{"due in 2 days", now.Add(49 * time.Hour), AlertWarning},
		{"due in 3 days", now.Add(3*24*time.Hour + time.Hour), AlertWarning},
		{"due in 4 days", now.Add(4*24*time.Hour + time.Hour), AlertAttention},
		{"due in 5 days", now.Add(5 * 24 * time.Hour), AlertAttention},
		{"due in 7 days 1h", now.Add(7*24*time.Hour + time.Hour), AlertAttention},
		{"due in 8 days 1h", now.Add(8*24*time.Hour + time.Hour), AlertNormal},
		{"due in 30 days", now.Add(30 * 24 * time.Hour), AlertNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due := tc.due
			assert.Equal(t, tc.want, ClassifyAlert(&due, now))
		})
	}
}

func TestClassifyAlert_NoDueDate(t *testing.T) {
	assert.Equal(t, AlertNormal, ClassifyAlert(nil, time.Now()))
}

func TestClassifyAlert_NormalizesZones(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	zone := time.FixedZone("BRT", -3*60*60)
	// 2025-06-12 09:00 BRT == 2025-06-12 12:00 UTC, exactly 2 days out.
	due := time.Date(2025, 6, 12, 9, 0, 0, 0, zone)
	assert.Equal(t, AlertWarning, ClassifyAlert(&due, now))
}

func TestClassifyAlert_Monotonic(t *testing.T) {
	urgency := map[AlertLevel]int{
		AlertOverdue:   5,
		AlertFatal:     4,
		AlertCritical:  3,
		AlertWarning:   2,
		AlertAttention: 1,
		AlertNormal:    0,
	}

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	prev := urgency[AlertOverdue]
	for hours := -48; hours <= 24*14; hours += 6 {
		due := now.Add(time.Duration(hours) * time.Hour)
		level := ClassifyAlert(&due, now)
		cur := urgency[level]
		assert.LessOrEqual(t, cur, prev, "urgency must not increase as the due date moves out (at %dh)", hours)
		prev = cur
	}
}

func TestBuildRanking_OrdersByScoreDescending(t *testing.T) {
	groups := []CompletionGroup{
		{UserID: "alice", Category: CategoryHearing, Tasks: 1, TotalScore: 100},
		{UserID: "alice", Category: CategoryOrdinaryDeadline, Tasks: 1, TotalScore: 50},
		{UserID: "alice", Category: CategoryOther, Tasks: 1, TotalScore: 25},
		{UserID: "bob", Category: CategoryFatalDeadline, Tasks: 2, TotalScore: 180},
	}

	ranking := BuildRanking(groups)
	require.Len(t, ranking, 2)

	// bob's 180 beats alice's 175 regardless of input order.
	assert.Equal(t, "bob", ranking[0].UserID)
	assert.Equal(t, 180, ranking[0].TotalScore)
	assert.Equal(t, 1, ranking[0].Rank)

	assert.Equal(t, "alice", ranking[1].UserID)
	assert.Equal(t, 175, ranking[1].TotalScore)
	assert.Equal(t, 2, ranking[1].Rank)
}

func TestBuildRanking_TieBreaksByUserID(t *testing.T) {
	groups := []CompletionGroup{
		{UserID: "zed", Category: CategoryFiling, Tasks: 1, TotalScore: 80},
		{UserID: "amy", Category: CategoryFiling, Tasks: 1, TotalScore: 80},
	}

	ranking := BuildRanking(groups)
	require.Len(t, ranking, 2)
	assert.Equal(t, "amy", ranking[0].UserID)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, "zed", ranking[1].UserID)
	assert.Equal(t, 2, ranking[1].Rank)
}

func TestBuildRanking_CategoryCountsAddUp(t *testing.T) {
	groups := []CompletionGroup{
		{UserID: "alice", Category: CategoryHearing, Tasks: 2, TotalScore: 200},
		{UserID: "alice", Category: CategoryMeeting, Tasks: 3, TotalScore: 120},
		{UserID: "alice", Category: CategoryOther, Tasks: 1, TotalScore: 25},
	}

	ranking := BuildRanking(groups)
	require.Len(t, ranking, 1)

	entry := ranking[0]
	assert.Equal(t, 6, entry.TasksCompleted)

	sum := 0
	for _, n := range entry.TasksByCategory {
		sum += n
	}
	assert.Equal(t, entry.TasksCompleted, sum)
}

func TestBuildRanking_RanksAreConsecutive(t *testing.T) {
	groups := []CompletionGroup{
		{UserID: "a", Category: CategoryOther, Tasks: 1, TotalScore: 10},
		{UserID: "b", Category: CategoryOther, Tasks: 1, TotalScore: 30},
		{UserID: "c", Category: CategoryOther, Tasks: 1, TotalScore: 20},
		{UserID: "d", Category: CategoryOther, Tasks: 1, TotalScore: 30},
	}

	ranking := BuildRanking(groups)
	require.Len(t, ranking, 4)
	for i, entry := range ranking {
		assert.Equal(t, i+1, entry.Rank)
		if i > 0 {
			assert.LessOrEqual(t, entry.TotalScore, ranking[i-1].TotalScore)
		}
	}
}

func TestOwnScore_PresentAndAbsent(t *testing.T) {
	ranking := BuildRanking([]CompletionGroup{
		{UserID: "alice", Category: CategoryHearing, Tasks: 1, TotalScore: 100},
		{UserID: "bob", Category: CategoryMeeting, Tasks: 1, TotalScore: 40},
	})

	mine := OwnScore(ranking, "bob")
	assert.Equal(t, 40, mine.TotalScore)
	assert.Equal(t, 2, mine.Rank)

	// Absent users get a zero placeholder ranked after the list.
	empty := OwnScore(ranking, "carol")
	assert.Equal(t, "carol", empty.UserID)
	assert.Zero(t, empty.TotalScore)
	assert.Zero(t, empty.TasksCompleted)
	assert.Equal(t, 3, empty.Rank)
	assert.NotNil(t, empty.TasksByCategory)
}
