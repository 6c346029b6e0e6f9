package session

// Status is the session lifecycle state. There is no paused state: a
// session left without an explicit end call stays active indefinitely.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Answer is one raw answer event. Append-only; the permanent source of
// truth for everything session-level.
type Answer struct {
	ID           int64   `json:"id"`
	SessionID    string  `json:"session_id"`
	QuestionID   int64   `json:"question_id"`
	UserAnswer   string  `json:"user_answer"`
	IsCorrect    bool    `json:"is_correct"`
	ResponseTime float64 `json:"response_time"`
	AnsweredAt   string  `json:"answered_at"`
}

// Stats is the aggregate row for one session. The aggregate columns are
// always recomputed in full from the answer log, never patched
// incrementally, so they are exactly derivable from it at any point.
type Stats struct {
	SessionID       string  `json:"session_id"`
	SessionName     string  `json:"session_name"`
	UserID          string  `json:"user_id"`
	CategoryFilter  string  `json:"category_filter"`
	TotalQuestions  int     `json:"total_questions"`
	CorrectAnswers  int     `json:"correct_answers"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	TotalTime       float64 `json:"total_time"`
	AvgResponseTime float64 `json:"avg_response_time"`
	FastestAnswer   float64 `json:"fastest_answer"`
	SlowestAnswer   float64 `json:"slowest_answer"`
	StartedAt       string  `json:"started_at"`
	EndedAt         string  `json:"ended_at,omitempty"`
	Status          Status  `json:"status"`
}

// Aggregate is the derived portion of Stats.
type Aggregate struct {
	TotalQuestions  int     `json:"total_questions"`
	CorrectAnswers  int     `json:"correct_answers"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	TotalTime       float64 `json:"total_time"`
	AvgResponseTime float64 `json:"avg_response_time"`
	FastestAnswer   float64 `json:"fastest_answer"`
	SlowestAnswer   float64 `json:"slowest_answer"`
}

// Compute folds an answer log into its aggregate. The store performs the
// same fold in SQL when persisting; this form serves session detail
// summaries and tests.
func Compute(answers []Answer) Aggregate {
	if len(answers) == 0 {
		return Aggregate{}
	}

	agg := Aggregate{
		TotalQuestions: len(answers),
		FastestAnswer:  answers[0].ResponseTime,
		SlowestAnswer:  answers[0].ResponseTime,
	}
	for _, a := range answers {
		if a.IsCorrect {
			agg.CorrectAnswers++
		}
		agg.TotalTime += a.ResponseTime
		if a.ResponseTime < agg.FastestAnswer {
			agg.FastestAnswer = a.ResponseTime
		}
		if a.ResponseTime > agg.SlowestAnswer {
			agg.SlowestAnswer = a.ResponseTime
		}
	}
	agg.AccuracyRate = float64(agg.CorrectAnswers) / float64(agg.TotalQuestions) * 100
	agg.AvgResponseTime = agg.TotalTime / float64(agg.TotalQuestions)
	return agg
}
