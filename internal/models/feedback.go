package models

import "fmt"

// QuestionCount is the number of survey slots. Slot 15 is free text, all
// other slots hold a 1-5 rating.
const QuestionCount = 21

// SuggestionSlot is the free-text question number.
const SuggestionSlot = 15

// FeedbackSubmission is one student's survey, immutable once stored.
// Rating columns are nullable so partially answered legacy rows scan cleanly.
type FeedbackSubmission struct {
	Roll         string `db:"roll" json:"roll"`
	Name         string `db:"name" json:"name"`
	Branch       string `db:"branch" json:"branch"`
	AcademicYear string `db:"accyear" json:"accyear"`
	Contact      string `db:"contact" json:"contact"`
	Email        string `db:"email" json:"email"`

	Q1  *int16 `db:"q1" json:"q1"`
	Q2  *int16 `db:"q2" json:"q2"`
	Q3  *int16 `db:"q3" json:"q3"`
	Q4  *int16 `db:"q4" json:"q4"`
	Q5  *int16 `db:"q5" json:"q5"`
	Q6  *int16 `db:"q6" json:"q6"`
	Q7  *int16 `db:"q7" json:"q7"`
	Q8  *int16 `db:"q8" json:"q8"`
	Q9  *int16 `db:"q9" json:"q9"`
	Q10 *int16 `db:"q10" json:"q10"`
	Q11 *int16 `db:"q11" json:"q11"`
	Q12 *int16 `db:"q12" json:"q12"`
	Q13 *int16 `db:"q13" json:"q13"`
	Q14 *int16 `db:"q14" json:"q14"`

	// Q15 carries free-text suggestions, never aggregated numerically.
	Q15 string `db:"q15" json:"q15"`

	Q16 *int16 `db:"q16" json:"q16"`
	Q17 *int16 `db:"q17" json:"q17"`
	Q18 *int16 `db:"q18" json:"q18"`
	Q19 *int16 `db:"q19" json:"q19"`
	Q20 *int16 `db:"q20" json:"q20"`
	Q21 *int16 `db:"q21" json:"q21"`
}

// Rating returns the numeric answer for question q, or nil for unanswered
// slots and for the free-text slot.
func (f *FeedbackSubmission) Rating(q int) *int16 {
	switch q {
	case 1:
		return f.Q1
	case 2:
		return f.Q2
	case 3:
		return f.Q3
	case 4:
		return f.Q4
	case 5:
		return f.Q5
	case 6:
		return f.Q6
	case 7:
		return f.Q7
	case 8:
		return f.Q8
	case 9:
		return f.Q9
	case 10:
		return f.Q10
	case 11:
		return f.Q11
	case 12:
		return f.Q12
	case 13:
		return f.Q13
	case 14:
		return f.Q14
	case 16:
		return f.Q16
	case 17:
		return f.Q17
	case 18:
		return f.Q18
	case 19:
		return f.Q19
	case 20:
		return f.Q20
	case 21:
		return f.Q21
	default:
		return nil
	}
}

// QuestionKey returns the raw column key for a question number, e.g. "q7".
func QuestionKey(q int) string {
	return fmt.Sprintf("q%d", q)
}

// SubmissionFilter scopes submission reads to a set of branch codes. An empty
// branch list matches every row. Limit caps the result set when positive.
type SubmissionFilter struct {
	Branches []string
	Limit    int
}

// StatEntry is the derived per-question aggregate. It is computed fresh on
// every request and never persisted.
type StatEntry struct {
	QNo          int      `json:"qno"`
	Question     string   `json:"question"`
	Poor         int      `json:"poor"`
	Average      int      `json:"average"`
	AboveAverage int      `json:"aboveaverage"`
	Good         int      `json:"good"`
	Excellent    int      `json:"excellent"`
	WeightedAvg  *float64 `json:"weightedAvg"`
	TotalUsers   int      `json:"totalUsers"`
}

// StatsReport is the full aggregation response.
type StatsReport struct {
	TotalUsers int         `json:"totalUsers"`
	Stats      []StatEntry `json:"stats"`
}
