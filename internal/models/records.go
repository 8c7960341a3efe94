package models

import "time"

// Student as served by the upstream API.
type Student struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ClassID   string `json:"classId"`
	RollNo    string `json:"rollNo,omitempty"`
}

// Class as served by the upstream API.
type Class struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section,omitempty"`
}

// Assignment is a work item with a deadline. DueDate is a pointer because
// upstream records have been observed without one; derivation must tolerate it.
type Assignment struct {
	ID          string     `json:"id"`
	ClassID     string     `json:"classId"`
	SubjectName string     `json:"subjectName,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate"`
	TotalMarks  float64    `json:"totalMarks"`
}

// SubmissionStatus values reported by the upstream API.
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusGraded    = "graded"
)

// Submission is a student's answer to an assignment.
type Submission struct {
	ID           string     `json:"id"`
	AssignmentID string     `json:"assignmentId"`
	StudentID    string     `json:"studentId"`
	SubmittedAt  *time.Time `json:"submittedAt"`
	Status       string     `json:"status"`
	Marks        *float64   `json:"marks,omitempty"`
	Feedback     string     `json:"feedback,omitempty"`
}

// AttendanceStatus represents a single day's attendance mark.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one attendance entry for a student.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Remark    string           `json:"remark,omitempty"`
}

// AttendanceSummary aggregates a student's attendance records.
type AttendanceSummary struct {
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Exam as served by the upstream API.
type Exam struct {
	ID           string     `json:"id"`
	ClassID      string     `json:"classId"`
	Name         string     `json:"name"`
	SubjectName  string     `json:"subjectName,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	TotalMarks   float64    `json:"totalMarks"`
	PassingMarks float64    `json:"passingMarks"`
}

// ExamResult is one student's marks for an exam.
type ExamResult struct {
	ID            string  `json:"id"`
	ExamID        string  `json:"examId"`
	StudentID     string  `json:"studentId"`
	StudentName   string  `json:"studentName,omitempty"`
	MarksObtained float64 `json:"marksObtained"`
}

// TimetableEntry is one slot in a class timetable.
type TimetableEntry struct {
	ID          string `json:"id"`
	ClassID     string `json:"classId"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	SubjectName string `json:"subjectName"`
	TeacherName string `json:"teacherName,omitempty"`
}
