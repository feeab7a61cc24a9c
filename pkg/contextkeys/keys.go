package contextkeys

type contextKey string

const (
	RequestIDKey contextKey = "RequestID"
	SubjectKey   contextKey = "Subject"
)
