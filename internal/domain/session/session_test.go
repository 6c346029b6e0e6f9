package session_test

import (
	"testing"

	"github.com/triviadeck/backend/internal/domain/session"
)

func TestComputeEmptyLog(t *testing.T) {
	agg := session.Compute(nil)
	if agg.TotalQuestions != 0 || agg.AccuracyRate != 0 || agg.TotalTime != 0 {
		t.Errorf("empty log should produce zero aggregate, got %+v", agg)
	}
}

func TestComputeSingleAnswer(t *testing.T) {
	agg := session.Compute([]session.Answer{
		{QuestionID: 1, IsCorrect: true, ResponseTime: 2.5},
	})
	if agg.TotalQuestions != 1 || agg.CorrectAnswers != 1 {
		t.Errorf("counts wrong: %+v", agg)
	}
	if agg.AccuracyRate != 100.0 {
		t.Errorf("AccuracyRate = %v, want 100", agg.AccuracyRate)
	}
	if agg.AvgResponseTime != 2.5 || agg.TotalTime != 2.5 {
		t.Errorf("timing wrong: %+v", agg)
	}
	if agg.FastestAnswer != 2.5 || agg.SlowestAnswer != 2.5 {
		t.Errorf("min/max wrong: %+v", agg)
	}
}

func TestComputeMixedAnswers(t *testing.T) {
	answers := []session.Answer{
		{QuestionID: 1, IsCorrect: true, ResponseTime: 2.0},
		{QuestionID: 2, IsCorrect: false, ResponseTime: 4.0},
		{QuestionID: 3, IsCorrect: true, ResponseTime: 6.0},
		{QuestionID: 4, IsCorrect: true, ResponseTime: 8.0},
	}
	agg := session.Compute(answers)

	if agg.TotalQuestions != 4 || agg.CorrectAnswers != 3 {
		t.Errorf("counts wrong: %+v", agg)
	}
	if agg.AccuracyRate != 75.0 {
		t.Errorf("AccuracyRate = %v, want 75", agg.AccuracyRate)
	}
	if agg.TotalTime != 20.0 {
		t.Errorf("TotalTime = %v, want 20", agg.TotalTime)
	}
	if agg.AvgResponseTime != 5.0 {
		t.Errorf("AvgResponseTime = %v, want 5", agg.AvgResponseTime)
	}
	if agg.FastestAnswer != 2.0 || agg.SlowestAnswer != 8.0 {
		t.Errorf("min/max wrong: %+v", agg)
	}
}

// Compute is a pure fold: running it twice over the same log yields the
// same aggregate.
func TestComputeDeterministic(t *testing.T) {
	answers := []session.Answer{
		{QuestionID: 1, IsCorrect: true, ResponseTime: 1.5},
		{QuestionID: 2, IsCorrect: false, ResponseTime: 3.5},
	}
	first := session.Compute(answers)
	second := session.Compute(answers)
	if first != second {
		t.Errorf("recompute drifted: %+v vs %+v", first, second)
	}
}
