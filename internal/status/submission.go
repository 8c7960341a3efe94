package status

import (
	"fmt"
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// Label is the closed set of derived display states for a work item.
type Label string

const (
	NotSubmitted  Label = "NOT_SUBMITTED"
	Overdue       Label = "OVERDUE"
	Submitted     Label = "SUBMITTED"
	SubmittedLate Label = "SUBMITTED_LATE"
	Graded        Label = "GRADED"
	Unknown       Label = "UNKNOWN"
)

// Severity tags a label for display emphasis.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeveritySuccess Severity = "success"
)

// Result is the derived state of a submission relative to its deadline.
// Actionable is true only while the student can still submit.
type Result struct {
	Label      Label    `json:"label"`
	Severity   Severity `json:"severity"`
	Details    string   `json:"details,omitempty"`
	Actionable bool     `json:"actionable"`
}

// DeriveSubmission classifies a work item from its timestamps and grading
// fields. It is a pure function of its inputs and is re-evaluated against now
// on every call. Precedence: missing submission first, then graded, then late,
// then plain submitted. A missing due date never classifies as overdue.
func DeriveSubmission(now time.Time, assignment models.Assignment, submission *models.Submission) Result {
	if submission == nil {
		if assignment.DueDate == nil {
			return Result{Label: Unknown, Severity: SeverityNeutral, Actionable: true}
		}
		if now.After(*assignment.DueDate) {
			return Result{Label: Overdue, Severity: SeverityDanger, Actionable: true}
		}
		return Result{Label: NotSubmitted, Severity: SeverityWarning, Actionable: true}
	}

	if submission.Status == models.SubmissionStatusGraded {
		details := ""
		if submission.Marks != nil {
			details = fmt.Sprintf("%s/%s", trimFloat(*submission.Marks), trimFloat(assignment.TotalMarks))
		}
		return Result{Label: Graded, Severity: SeveritySuccess, Details: details}
	}

	if assignment.DueDate != nil && submission.SubmittedAt != nil && submission.SubmittedAt.After(*assignment.DueDate) {
		return Result{Label: SubmittedLate, Severity: SeverityWarning}
	}

	return Result{Label: Submitted, Severity: SeverityInfo}
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
