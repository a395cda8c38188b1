package httpquery

import "context"

// Resolver produces the value of one field from its parent source and
// coerced arguments.
type Resolver func(ctx context.Context, source any, args map[string]any) (any, error)

// Middleware wraps field resolution. The schema applies the configured chain
// around each resolver call, first configured entry outermost.
type Middleware interface {
	WrapResolve(next Resolver) Resolver
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(next Resolver) Resolver

func (f MiddlewareFunc) WrapResolve(next Resolver) Resolver { return f(next) }

// MiddlewareSpec configures one middleware entry as a tagged variant: either
// an already constructed Instance or a New constructor invoked once during
// normalization. Exactly one of the two should be set; when both are set the
// instance wins.
type MiddlewareSpec struct {
	Instance Middleware
	New      func() Middleware
}

// UseMiddleware wraps an instance into a spec.
func UseMiddleware(m Middleware) MiddlewareSpec { return MiddlewareSpec{Instance: m} }

// BuildMiddleware wraps a constructor into a spec.
func BuildMiddleware(ctor func() Middleware) MiddlewareSpec { return MiddlewareSpec{New: ctor} }

// InstantiateMiddleware normalizes configured specs into ready instances,
// preserving order. A nil spec list yields nil, which downstream treats as
// "no middleware stage at all" rather than an empty chain.
func InstantiateMiddleware(specs []MiddlewareSpec) []Middleware {
	if specs == nil {
		return nil
	}
	instances := make([]Middleware, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.Instance != nil:
			instances = append(instances, spec.Instance)
		case spec.New != nil:
			instances = append(instances, spec.New())
		}
	}
	return instances
}
