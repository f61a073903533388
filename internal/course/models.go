package course

import "github.com/heartwise-th/heartwise-lms/internal/grading"

// Phase selects one of a course's two tests.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhasePost Phase = "post"
)

func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhasePre, PhasePost:
		return Phase(s), true
	}
	return "", false
}

type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"` // length >= 2
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Course struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	VideoURL     string     `json:"video_url,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Category     string     `json:"category,omitempty"`
	PassingScore int        `json:"passing_score"` // percentage, 0-100
	IsActive     bool       `json:"is_active"`
	PreTest      []Question `json:"pre_test,omitempty"`
	PostTest     []Question `json:"post_test,omitempty"`
	CreatedAt    int64      `json:"created_at,omitempty"`
}

func (c Course) Test(p Phase) []Question {
	if p == PhasePre {
		return c.PreTest
	}
	return c.PostTest
}

// Sanitize hides answer keys and explanations from students.
// Correct answers come back to the learner only inside a graded result.
func Sanitize(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.CorrectAnswer = -1
		q.Explanation = ""
		out[i] = q
	}
	return out
}

// GradingView converts questions to the scorer's minimal view.
func GradingView(qs []Question) []grading.Q {
	out := make([]grading.Q, len(qs))
	for i, q := range qs {
		out[i] = grading.Q{ID: q.ID, CorrectAnswer: q.CorrectAnswer}
	}
	return out
}
