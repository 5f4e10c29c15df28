package domain

import "errors"

// Detailer is implemented by adapter errors that carry a
// server-provided detail message worth showing to the user.
type Detailer interface {
	ServerDetail() string
}

// ErrorDetail extracts the server-provided detail from an error chain,
// or "" when there is none.
func ErrorDetail(err error) string {
	var d Detailer
	if errors.As(err, &d) {
		return d.ServerDetail()
	}
	return ""
}
