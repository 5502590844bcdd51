package model

// Level is the difficulty label attached to a course.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Category is the catalog grouping a course belongs to. CategoryAll is a
// filter-only value: it is accepted by catalog searches but never stored on
// a course.
type Category string

const (
	CategoryAll         Category = "All"
	CategoryProgramming Category = "Programming"
	CategoryMarketing   Category = "Marketing"
	CategoryDesign      Category = "Design"
	CategoryBusiness    Category = "Business"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProgramming, CategoryMarketing, CategoryDesign, CategoryBusiness:
		return true
	}
	return false
}

// Review is a single course review. Reviews start empty on every authored
// course; aggregation into the course rating happens outside this core.
type Review struct {
	Author  string  `json:"author"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// Course represents an offering in the catalog.
//
// A course is immutable after creation except for the review/enrollment
// aggregates (Rating, Students, Reviews). InstructorID references the
// User.ID of the author at authoring time.
type Course struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Instructor   string   `json:"instructor"`
	InstructorID string   `json:"instructorId"`
	Rating       float64  `json:"rating"`
	Students     int      `json:"students"`
	Duration     string   `json:"duration"`
	Level        Level    `json:"level"`
	Category     Category `json:"category"`
	Thumbnail    string   `json:"thumbnail"`
	Reviews      []Review `json:"reviews"`
}

// CourseDraft carries the author-supplied fields of a new course. The
// session manager validates it and fills in everything else (ID, instructor
// identity, zeroed aggregates, thumbnail).
type CourseDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Duration    string   `json:"duration"`
	Level       Level    `json:"level"`
	Category    Category `json:"category"`
}

// CourseThumbnails is the fixed symbol set a new course's thumbnail is
// drawn from.
var CourseThumbnails = []string{"🚀", "💡", "🎯", "⭐", "📚", "🔥"}

// SeedCourses returns a fresh copy of the built-in sample catalog. Seed
// courses exist at every process start and are never written to the
// persistence store; only authored additions round-trip through it.
func SeedCourses() []Course {
	return []Course{
		{
			ID:           "1",
			Title:        "Digital Marketing Mastery",
			Description:  "Learn the complete digital marketing funnel from scratch to advanced strategies.",
			Price:        2999,
			Instructor:   "Priya Sharma",
			InstructorID: "instructor1",
			Rating:       4.9,
			Students:     2847,
			Duration:     "12 hours",
			Level:        LevelBeginner,
			Category:     CategoryMarketing,
			Thumbnail:    "💼",
			Reviews:      []Review{},
		},
		{
			ID:           "2",
			Title:        "React Development Bootcamp",
			Description:  "Build modern web applications with React, hooks, and advanced patterns.",
			Price:        3999,
			Instructor:   "Arjun Patel",
			InstructorID: "instructor2",
			Rating:       4.8,
			Students:     1943,
			Duration:     "18 hours",
			Level:        LevelIntermediate,
			Category:     CategoryProgramming,
			Thumbnail:    "⚛️",
			Reviews:      []Review{},
		},
		{
			ID:           "3",
			Title:        "UI/UX Design Fundamentals",
			Description:  "Create beautiful and functional user interfaces with design thinking approach.",
			Price:        2499,
			Instructor:   "Sneha Reddy",
			InstructorID: "instructor3",
			Rating:       4.7,
			Students:     3201,
			Duration:     "15 hours",
			Level:        LevelBeginner,
			Category:     CategoryDesign,
			Thumbnail:    "🎨",
			Reviews:      []Review{},
		},
	}
}
