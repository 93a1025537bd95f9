package domain

// College is a top-level grouping of departments.
type College struct {
	ID          string
	Name        string
	Slug        string
	Description string
}

// Department belongs to a college and owns courses.
type Department struct {
	ID        string
	CollegeID string
	Code      string
	Name      string
	Slug      string
}

// Course belongs to a department at a given level (100, 200, ...).
type Course struct {
	ID           string
	DepartmentID string
	Code         string
	Title        string
	Description  string
	Level        int
	Semester     string
}
