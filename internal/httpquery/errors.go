package httpquery

// RequestError reports a malformed or unprocessable HTTP request: bad JSON,
// missing query text, a disabled batch mode, a mutation over GET. It is
// raised before any operation reaches the schema and always aborts the whole
// request; it is never folded into a per-operation error list.
type RequestError struct {
	StatusCode int
	Message    string
	// Headers, when set, are copied onto the HTTP response verbatim.
	Headers map[string]string
}

func (e *RequestError) Error() string { return e.Message }

// NewRequestError builds a RequestError with the given status and message.
func NewRequestError(status int, message string) *RequestError {
	return &RequestError{StatusCode: status, Message: message}
}

// Location is a position in the query source text.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// FormattedError is one GraphQL execution error in response shape.
type FormattedError struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
	Path      []any      `json:"path,omitempty"`
}

func (e FormattedError) Error() string { return e.Message }
