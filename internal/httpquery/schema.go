package httpquery

import "context"

// ExecutableSchema is the boundary to the GraphQL engine proper: a type
// system plus resolver logic that can run one operation. Implementations must
// be safe for concurrent use; this package invokes Execute once per operation
// and never retries.
type ExecutableSchema interface {
	Execute(ctx context.Context, req ExecutionRequest) *Result
}

// ExecutionRequest carries the resolved inputs for one operation after all
// merging and validation: the effective query text, variables, and operation
// name, together with the host-supplied root value, context value, and
// middleware chain.
type ExecutionRequest struct {
	Query         string
	Variables     map[string]any
	OperationName string

	// RootValue seeds top-level field resolution.
	RootValue any
	// ContextValue is an opaque host value forwarded to resolvers. The HTTP
	// handler sets it to the incoming *http.Request.
	ContextValue any
	// Middleware wraps field resolution, first entry outermost. A nil slice
	// means no middleware stage is installed.
	Middleware []Middleware
}

// Result is the outcome of executing one operation. A clean run leaves
// Errors nil or empty; partial results may carry both Data and Errors.
type Result struct {
	Data   any
	Errors []FormattedError
}

// statusCode derives the HTTP status this single result justifies on its own.
func (r *Result) statusCode() int {
	if len(r.Errors) > 0 {
		return 400
	}
	return 200
}
