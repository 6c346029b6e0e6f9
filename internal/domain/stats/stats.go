package stats

import "time"

// DailyQuestionStat is the per-(question, day) usage counter row. Created
// on the first answer of that question on that date and only ever
// incremented. Display fields are populated on joined reads.
type DailyQuestionStat struct {
	QuestionID        int64   `json:"question_id"`
	Date              string  `json:"date"`
	TimesAsked        int     `json:"times_asked"`
	TimesCorrect      int     `json:"times_correct"`
	TotalResponseTime float64 `json:"total_response_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	AccuracyRate      float64 `json:"accuracy_rate"`
	Question          string  `json:"question,omitempty"`
	Category          string  `json:"category,omitempty"`
	Subcategory       string  `json:"subcategory,omitempty"`
}

// DailyCategoryStat is the per-(category, subcategory, day) rollup,
// derived transactionally alongside the per-question update.
type DailyCategoryStat struct {
	CategoryID        int64   `json:"category_id"`
	SubcategoryID     int64   `json:"subcategory_id"`
	Date              string  `json:"date"`
	QuestionsAsked    int     `json:"questions_asked"`
	QuestionsCorrect  int     `json:"questions_correct"`
	TotalResponseTime float64 `json:"total_response_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	AccuracyRate      float64 `json:"accuracy_rate"`
	Category          string  `json:"category,omitempty"`
	Subcategory       string  `json:"subcategory,omitempty"`
}

// HistoricalQuestionStat is one week's fold of daily rows for a question.
// Produced only by the rollover job.
type HistoricalQuestionStat struct {
	QuestionID      int64   `json:"question_id"`
	WeekEnding      string  `json:"week_ending"`
	TotalAsked      int     `json:"total_asked"`
	TotalCorrect    int     `json:"total_correct"`
	AvgResponseTime float64 `json:"avg_response_time"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	DaysActive      int     `json:"days_active"`
}

// SummaryTotals is the computed whole-day rollup of a daily summary.
type SummaryTotals struct {
	TotalQuestionsAsked int     `json:"total_questions_asked"`
	TotalCorrectAnswers int     `json:"total_correct_answers"`
	OverallAccuracy     float64 `json:"overall_accuracy"`
	AvgResponseTime     float64 `json:"avg_response_time"`
}

// DailySummary is one day's per-question and per-category breakdown plus
// totals. A day with no answers yields an all-zero summary, not an error.
type DailySummary struct {
	Date          string              `json:"date"`
	QuestionStats []DailyQuestionStat `json:"question_stats"`
	CategoryStats []DailyCategoryStat `json:"category_stats"`
	Summary       SummaryTotals       `json:"summary"`
}

// QuestionTrend is one row of the trending view: frequently asked and
// commonly missed questions within a window.
type QuestionTrend struct {
	QuestionID      int64   `json:"question_id"`
	Question        string  `json:"question"`
	Difficulty      string  `json:"difficulty"`
	Category        string  `json:"category"`
	Subcategory     string  `json:"subcategory"`
	TotalAsked      int     `json:"total_asked"`
	TotalCorrect    int     `json:"total_correct"`
	AvgAccuracy     float64 `json:"avg_accuracy"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// PerformanceSummary aggregates a question's daily rows over a window.
type PerformanceSummary struct {
	TotalAsked   int     `json:"total_asked"`
	TotalCorrect int     `json:"total_correct"`
	AccuracyRate float64 `json:"accuracy_rate"`
	DaysActive   int     `json:"days_active"`
}

// QuestionPerformance is one question's recent daily history.
type QuestionPerformance struct {
	QuestionID int64               `json:"question_id"`
	Period     string              `json:"period"`
	Daily      []DailyQuestionStat `json:"daily_stats"`
	Summary    PerformanceSummary  `json:"summary"`
}

// RolloverResult reports what one rollover run folded and pruned.
type RolloverResult struct {
	WeekEnding      string `json:"week_ending"`
	QuestionsFolded int    `json:"questions_folded"`
	DailyCutoff     string `json:"daily_cutoff"`
	SessionCutoff   string `json:"session_cutoff"`
}

// Summarize folds per-question daily rows into day totals.
func Summarize(rows []DailyQuestionStat) SummaryTotals {
	var totals SummaryTotals
	var totalResponseTime float64
	for _, row := range rows {
		totals.TotalQuestionsAsked += row.TimesAsked
		totals.TotalCorrectAnswers += row.TimesCorrect
		totalResponseTime += row.TotalResponseTime
	}
	if totals.TotalQuestionsAsked > 0 {
		totals.OverallAccuracy = float64(totals.TotalCorrectAnswers) / float64(totals.TotalQuestionsAsked) * 100
		totals.AvgResponseTime = totalResponseTime / float64(totals.TotalQuestionsAsked)
	}
	return totals
}

// SummarizePerformance folds a question's daily rows over a window.
func SummarizePerformance(rows []DailyQuestionStat) PerformanceSummary {
	var s PerformanceSummary
	for _, row := range rows {
		s.TotalAsked += row.TimesAsked
		s.TotalCorrect += row.TimesCorrect
		if row.TimesAsked > 0 {
			s.DaysActive++
		}
	}
	if s.TotalAsked > 0 {
		s.AccuracyRate = float64(s.TotalCorrect) / float64(s.TotalAsked) * 100
	}
	return s
}

// WeekEnding returns the most recently completed week boundary: the last
// Sunday on or before now, in UTC.
func WeekEnding(now time.Time) time.Time {
	now = now.UTC()
	daysSinceSunday := int(now.Weekday())
	return now.AddDate(0, 0, -daysSinceSunday).Truncate(24 * time.Hour)
}

// DateString formats a time as the stat-table date key.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Today returns the current UTC date key.
func Today() string {
	return DateString(time.Now())
}
