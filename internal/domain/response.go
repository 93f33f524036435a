package domain

import "time"

// Response is a team's submitted answer. Immutable once created except
// for the grading fields, which a grader may revise; totals are always
// recomputed from rows so a re-grade can never double-count.
type Response struct {
	ID                  uint      `json:"id"`
	QuestionID          uint      `json:"question_id"`
	TeamID              uint      `json:"team_id"`
	SubmittedAnswer     string    `json:"submitted_answer"`
	IsCorrect           *bool     `json:"is_correct"`
	PointsAwarded       *int      `json:"points_awarded"`
	ResponseTimeSeconds *int      `json:"response_time_seconds,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ResponseBuckets partitions a question's responses by grading verdict
// for the grader view. The partition is a stable filter: rows keep
// their relative order within each bucket.
type ResponseBuckets struct {
	Pending   []Response `json:"pending"`
	Correct   []Response `json:"correct"`
	Incorrect []Response `json:"incorrect"`
}

// PartitionResponses splits responses into pending/correct/incorrect
// buckets in one pass without reordering.
func PartitionResponses(responses []Response) ResponseBuckets {
	var buckets ResponseBuckets
	for _, r := range responses {
		switch {
		case r.IsCorrect == nil:
			buckets.Pending = append(buckets.Pending, r)
		case *r.IsCorrect:
			buckets.Correct = append(buckets.Correct, r)
		default:
			buckets.Incorrect = append(buckets.Incorrect, r)
		}
	}

	return buckets
}
