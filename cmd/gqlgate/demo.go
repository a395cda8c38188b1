package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gqlgate/gqlgate/internal/httpquery"
)

// demoSchema is a self-contained ExecutableSchema for trying the endpoint
// without a real engine: it resolves a handful of top-level fields from an
// in-memory dataset. Nested selections are not supported.
type demoSchema struct {
	started   time.Time
	queries   map[string]httpquery.Resolver
	mutations map[string]httpquery.Resolver
}

func newDemoSchema() *demoSchema {
	s := &demoSchema{started: time.Now()}
	s.queries = map[string]httpquery.Resolver{
		"hello": func(ctx context.Context, source any, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			if name == "" {
				name = "world"
			}
			return "Hello, " + name + "!", nil
		},
		"uptime": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return time.Since(s.started).String(), nil
		},
		"serverTime": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		},
	}
	s.mutations = map[string]httpquery.Resolver{
		"echo": func(ctx context.Context, source any, args map[string]any) (any, error) {
			message, ok := args["message"].(string)
			if !ok {
				return nil, fmt.Errorf("echo requires a message argument")
			}
			return message, nil
		},
	}
	return s
}

func (s *demoSchema) Execute(ctx context.Context, req httpquery.ExecutionRequest) *httpquery.Result {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return &httpquery.Result{Errors: formatGqlError(err)}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil && len(doc.Operations) == 1 {
		op = doc.Operations[0]
	}
	if op == nil {
		return &httpquery.Result{Errors: []httpquery.FormattedError{{Message: "operation not found"}}}
	}

	var resolvers map[string]httpquery.Resolver
	switch op.Operation {
	case ast.Query:
		resolvers = s.queries
	case ast.Mutation:
		resolvers = s.mutations
	default:
		return &httpquery.Result{Errors: []httpquery.FormattedError{{
			Message: fmt.Sprintf("%s operations are not supported by the demo schema", op.Operation),
		}}}
	}

	data := map[string]any{}
	var errs []httpquery.FormattedError
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		name := field.Alias
		if name == "" {
			name = field.Name
		}

		resolver, ok := resolvers[field.Name]
		if !ok {
			data[name] = nil
			errs = append(errs, fieldError(field, fmt.Sprintf("Cannot query field %q on the demo schema.", field.Name)))
			continue
		}
		for i := len(req.Middleware) - 1; i >= 0; i-- {
			resolver = req.Middleware[i].WrapResolve(resolver)
		}

		args, argErr := argumentValues(field, req.Variables)
		if argErr != nil {
			data[name] = nil
			errs = append(errs, fieldError(field, argErr.Error()))
			continue
		}
		value, err := resolver(ctx, req.RootValue, args)
		if err != nil {
			data[name] = nil
			errs = append(errs, httpquery.FormattedError{Message: err.Error(), Path: []any{name}})
			continue
		}
		data[name] = value
	}
	return &httpquery.Result{Data: data, Errors: errs}
}

func argumentValues(field *ast.Field, variables map[string]any) (map[string]any, error) {
	args := make(map[string]any, len(field.Arguments))
	for _, arg := range field.Arguments {
		value, err := arg.Value.Value(variables)
		if err != nil {
			return nil, fmt.Errorf("invalid value for argument %q", arg.Name)
		}
		args[arg.Name] = value
	}
	return args, nil
}

func fieldError(field *ast.Field, message string) httpquery.FormattedError {
	e := httpquery.FormattedError{Message: message}
	if field.Position != nil {
		e.Locations = []httpquery.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return e
}

func formatGqlError(err error) []httpquery.FormattedError {
	if list, ok := err.(gqlerror.List); ok {
		out := make([]httpquery.FormattedError, 0, len(list))
		for _, e := range list {
			out = append(out, formatGqlError(e)...)
		}
		return out
	}
	if ge, ok := err.(*gqlerror.Error); ok {
		fe := httpquery.FormattedError{Message: ge.Message}
		for _, loc := range ge.Locations {
			fe.Locations = append(fe.Locations, httpquery.Location{Line: loc.Line, Column: loc.Column})
		}
		return []httpquery.FormattedError{fe}
	}
	return []httpquery.FormattedError{{Message: err.Error()}}
}
