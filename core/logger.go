package core

// Logger is any leveled logging service.
// Extra args are service-specific; implementations may extract known types
// (eg. errors, staff members) and forward the rest as metadata.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
