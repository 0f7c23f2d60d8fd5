package logger

import "go.uber.org/zap"

const (
	FieldModule    = "module"
	FieldRequestID = "request_id"
	FieldUsername  = "username"
	FieldStudentID = "student_id"
	FieldCourseID  = "course_id"
)

func Module(module string) zap.Field {
	return zap.String(FieldModule, module)
}

func RequestID(id string) zap.Field {
	return zap.String(FieldRequestID, id)
}

func Username(name string) zap.Field {
	return zap.String(FieldUsername, name)
}

func StudentID(id int64) zap.Field {
	return zap.Int64(FieldStudentID, id)
}

func CourseID(id int64) zap.Field {
	return zap.Int64(FieldCourseID, id)
}
