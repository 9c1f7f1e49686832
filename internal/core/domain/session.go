package domain

// Session is the request-scoped identity handed to every guard and service
// call. It is built once per request from the bearer token; the zero value is
// an anonymous visitor.
type Session struct {
	Username      string
	Authenticated bool
	Admin         bool
}

// Anonymous returns the session of a visitor without a valid token.
func Anonymous() Session {
	return Session{}
}

// Operation names what a caller wants to do with a record.
type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Mutates reports whether the operation changes the record.
func (o Operation) Mutates() bool {
	return o != OpRead
}
