// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, services, and storage can all import types without depending
// on each other.
package types

import "sort"

// Student represents a learner (aluno) and the courses they are enrolled in.
//
// JSON field names follow the public API (Portuguese keys). Courses is
// always encoded as an array, never null, sorted by course id.
type Student struct {
	ID         int64    `json:"id"`
	Name       string   `json:"nome"`
	Email      string   `json:"email"`
	Enrollment string   `json:"matricula"`
	Courses    []Course `json:"cursos"`
}

// Course represents an academic offering (curso).
//
// Students is the inverse side of the enrollment relationship. It is kept
// consistent in memory by Link/Unlink but never serialized, so a course
// does not drag its whole roster (and their courses) into every response.
type Course struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	CreditHours int       `json:"cargaHoraria"`
	Students    []Student `json:"-"`
}

// Link enrolls s in c on both sides of the relationship.
// Linking an already linked pair is a no-op.
//
// The copies stored in each set are shallow: a course inside s.Courses
// carries no students, and a student inside c.Students carries no courses.
func Link(s *Student, c *Course) {
	if !s.HasCourse(c.ID) {
		s.Courses = append(s.Courses, c.shallow())
		sortCourses(s.Courses)
	}
	if !c.HasStudent(s.ID) {
		c.Students = append(c.Students, s.shallow())
		sortStudents(c.Students)
	}
}

// Unlink removes the enrollment of s in c from both sides.
// Unlinking a pair that is not linked is a no-op.
func Unlink(s *Student, c *Course) {
	s.Courses = removeCourse(s.Courses, c.ID)
	c.Students = removeStudent(c.Students, s.ID)
}

// HasCourse reports whether the student's course set holds courseID.
func (s *Student) HasCourse(courseID int64) bool {
	for _, c := range s.Courses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}

// HasStudent reports whether the course's student set holds studentID.
func (c *Course) HasStudent(studentID int64) bool {
	for _, s := range c.Students {
		if s.ID == studentID {
			return true
		}
	}
	return false
}

// CourseIDs returns the ids of the student's course set in ascending order.
func (s *Student) CourseIDs() []int64 {
	ids := make([]int64, 0, len(s.Courses))
	for _, c := range s.Courses {
		ids = append(ids, c.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s Student) shallow() Student {
	s.Courses = []Course{}
	return s
}

func (c Course) shallow() Course {
	c.Students = nil
	return c
}

func removeCourse(courses []Course, id int64) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func removeStudent(students []Student, id int64) []Student {
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func sortCourses(courses []Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
}

func sortStudents(students []Student) {
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
}
