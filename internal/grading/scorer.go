// Package grading scores a submitted answer set against a question list.
// Grade is a pure function: no clock, no store, no side effects.
package grading

import (
	"fmt"
	"math"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

// Q is the minimal view of a question needed for grading.
type Q struct {
	ID            string
	CorrectAnswer int // index into the question's options
}

// Answer is one learner selection for one question of one test instance.
type Answer struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer int    `json:"selected_answer"`
}

// GradedAnswer is an Answer with its derived correctness.
type GradedAnswer struct {
	Answer
	Correct bool `json:"correct"`
}

type TestResult struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Answers        []GradedAnswer `json:"answers"`
	Percentage     int            `json:"percentage"`
	Passed         bool           `json:"passed"`
}

// Grade marks each answer against its question's correct option and derives
// the verdict. An answer whose QuestionID matches no question is graded
// incorrect rather than rejected. Percentage rounds half-up (math.Round on a
// non-negative operand), so 2/3 correct is 67. The pass threshold is
// inclusive: percentage == passingScore passes.
func Grade(questions []Q, answers []Answer, passingScore int) (TestResult, error) {
	if len(questions) == 0 {
		return TestResult{}, fmt.Errorf("%w: empty question set", fault.ErrInvalidInput)
	}

	byID := make(map[string]Q, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	graded := make([]GradedAnswer, 0, len(answers))
	score := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		correct := ok && a.SelectedAnswer == q.CorrectAnswer
		if correct {
			score++
		}
		graded = append(graded, GradedAnswer{Answer: a, Correct: correct})
	}

	pct := int(math.Round(float64(score) / float64(len(questions)) * 100))
	return TestResult{
		Score:          score,
		TotalQuestions: len(questions),
		Answers:        graded,
		Percentage:     pct,
		Passed:         pct >= passingScore,
	}, nil
}
