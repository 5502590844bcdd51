package model

import "math"

// StudentStats are the derived numbers a student's dashboard shows. Hours
// and certificates are estimates projected from the enrollment count; no
// per-lesson progress is tracked in this core.
type StudentStats struct {
	CoursesEnrolled    int `json:"coursesEnrolled"`
	HoursLearned       int `json:"hoursLearned"`
	CertificatesEarned int `json:"certificatesEarned"`
}

// TeacherStats are the derived numbers a teacher's dashboard shows,
// aggregated over the courses that teacher authored.
type TeacherStats struct {
	TotalCourses  int     `json:"totalCourses"`
	TotalStudents int     `json:"totalStudents"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AvgRating     float64 `json:"avgRating"`
}

// ComputeStudentStats projects dashboard numbers from an enrollment count.
func ComputeStudentStats(enrolled int) StudentStats {
	return StudentStats{
		CoursesEnrolled:    enrolled,
		HoursLearned:       enrolled * 8,
		CertificatesEarned: int(math.Floor(float64(enrolled) * 0.7)),
	}
}

// ComputeTeacherStats aggregates over the given authored courses.
func ComputeTeacherStats(authored []Course) TeacherStats {
	stats := TeacherStats{TotalCourses: len(authored)}
	var ratingSum float64
	for _, c := range authored {
		stats.TotalStudents += c.Students
		stats.TotalRevenue += c.Price * float64(c.Students)
		ratingSum += c.Rating
	}
	if len(authored) > 0 {
		stats.AvgRating = ratingSum / float64(len(authored))
	}
	return stats
}
