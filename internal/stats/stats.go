// Package stats computes derived statistics over grouped student records.
// All functions are pure: they read already-grouped data and never touch
// storage.
package stats

import (
	mfstats "github.com/montanaflynn/stats"

	"gradeboard/internal/shared"
)

// StudentAverage is the rounded mean mark of one student across their
// subjects. HasData is false for a student with no subjects; such a
// student has no displayable average and Average must not be read as a
// real score.
type StudentAverage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Average int    `json:"average"`
	HasData bool   `json:"has_data"`
}

// Summary bundles every dashboard statistic computed from one grouped
// dataset.
type Summary struct {
	TotalStudents     int              `json:"total_students"`
	Subjects          []string         `json:"subjects"`
	AveragePerSubject map[string]int   `json:"average_per_subject"`
	TopScore          int              `json:"top_score"`
	GradeDistribution map[string]int   `json:"grade_distribution"`
	StudentAverages   []StudentAverage `json:"student_averages"`
}

// Summarize computes the full statistics summary for a grouped dataset.
func Summarize(students []shared.StudentRecord) Summary {
	subjects := UniqueSubjects(students)

	averages := make(map[string]int, len(subjects))
	for _, subject := range subjects {
		if avg, ok := AveragePerSubject(students, subject); ok {
			averages[subject] = avg
		}
	}

	studentAverages := make([]StudentAverage, 0, len(students))
	for _, s := range students {
		avg, ok := Average(s)
		studentAverages = append(studentAverages, StudentAverage{
			Name:    s.Name,
			Email:   s.Email,
			Average: avg,
			HasData: ok,
		})
	}

	return Summary{
		TotalStudents:     len(students),
		Subjects:          subjects,
		AveragePerSubject: averages,
		TopScore:          TopScore(students),
		GradeDistribution: GradeDistribution(students),
		StudentAverages:   studentAverages,
	}
}

// UniqueSubjects returns every distinct subject name across all students,
// ordered by first appearance.
func UniqueSubjects(students []shared.StudentRecord) []string {
	seen := make(map[string]bool)
	subjects := make([]string, 0)

	for _, s := range students {
		for _, sub := range s.Subjects {
			if !seen[sub.Subject] {
				seen[sub.Subject] = true
				subjects = append(subjects, sub.Subject)
			}
		}
	}

	return subjects
}

// AveragePerSubject returns the mean mark for one subject across all
// students, rounded to the nearest integer. The bool is false when no
// entry carries that subject, so callers never divide by zero.
func AveragePerSubject(students []shared.StudentRecord, subject string) (int, bool) {
	var marks mfstats.Float64Data
	for _, s := range students {
		for _, sub := range s.Subjects {
			if sub.Subject == subject {
				marks = append(marks, float64(sub.Marks))
			}
		}
	}
	return roundedMean(marks)
}

// Average returns a student's mean mark across their subjects, rounded
// to the nearest integer. The bool is false for a student with no
// subjects.
func Average(student shared.StudentRecord) (int, bool) {
	var marks mfstats.Float64Data
	for _, sub := range student.Subjects {
		marks = append(marks, float64(sub.Marks))
	}
	return roundedMean(marks)
}

// TopScore returns the highest mark across every subject entry of every
// student, or 0 when there are no entries.
func TopScore(students []shared.StudentRecord) int {
	var marks mfstats.Float64Data
	for _, s := range students {
		for _, sub := range s.Subjects {
			marks = append(marks, float64(sub.Marks))
		}
	}

	max, err := mfstats.Max(marks)
	if err != nil {
		return 0
	}
	return int(max)
}

// GradeDistribution counts subject entries per grade band. Bands with no
// entries are omitted from the result.
func GradeDistribution(students []shared.StudentRecord) map[string]int {
	distribution := make(map[string]int)
	for _, s := range students {
		for _, sub := range s.Subjects {
			distribution[shared.GradeBand(sub.Marks)]++
		}
	}
	return distribution
}

func roundedMean(marks mfstats.Float64Data) (int, bool) {
	mean, err := mfstats.Mean(marks)
	if err != nil {
		return 0, false
	}
	rounded, err := mfstats.Round(mean, 0)
	if err != nil {
		return 0, false
	}
	return int(rounded), true
}
