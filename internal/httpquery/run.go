package httpquery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
)

// RunOptions carries the host configuration the runner forwards into every
// execution of one request.
type RunOptions struct {
	BatchEnabled bool
	RootValue    any
	ContextValue any
	Middleware   []Middleware
}

// RunHTTPQuery resolves every operation in a decoded request body and runs it
// against the schema. Results and their originating params come back in input
// order, one pair per operation. The returned error is always a
// *RequestError: any malformed payload aborts the whole batch before or
// during the loop, and no partial results are returned alongside it.
func RunHTTPQuery(ctx context.Context, schema ExecutableSchema, method string, body *DecodedBody, urlQuery url.Values, opts RunOptions) ([]*Result, []OperationParams, error) {
	if body.IsBatch && !opts.BatchEnabled {
		return nil, nil, NewRequestError(400, "Batch GraphQL requests are not enabled.")
	}

	payloads := body.Batch
	if !body.IsBatch {
		payloads = []map[string]any{body.Single}
	}
	if len(payloads) == 0 {
		return nil, nil, NewRequestError(400, "Received an empty list in the batch request.")
	}

	isGet := strings.EqualFold(method, "GET")
	allParams := make([]OperationParams, 0, len(payloads))
	opTypes := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		params, err := extractParams(payload, urlQuery, body.IsBatch)
		if err != nil {
			return nil, nil, err
		}
		opType := classifyOperation(params.Query, params.OperationName)
		if isGet && opType != "" && opType != string(ast.Query) {
			return nil, nil, &RequestError{
				StatusCode: 405,
				Message:    fmt.Sprintf("Can only perform a %s operation from a POST request.", opType),
				Headers:    map[string]string{"Allow": "POST"},
			}
		}
		allParams = append(allParams, params)
		opTypes = append(opTypes, opType)
	}

	results := make([]*Result, len(allParams))
	for i, params := range allParams {
		opType := opTypes[i]
		start := time.Now()
		eventbus.Publish(ctx, events.OperationStart{
			Query:         params.Query,
			OperationName: params.OperationName,
			OperationType: opType,
			BatchIndex:    i,
			BatchSize:     len(allParams),
		})
		result := schema.Execute(ctx, ExecutionRequest{
			Query:         params.Query,
			Variables:     params.Variables,
			OperationName: params.OperationName,
			RootValue:     opts.RootValue,
			ContextValue:  opts.ContextValue,
			Middleware:    opts.Middleware,
		})
		errs := make([]error, len(result.Errors))
		for j := range result.Errors {
			errs[j] = result.Errors[j]
		}
		eventbus.Publish(ctx, events.OperationFinish{
			Query:         params.Query,
			OperationName: params.OperationName,
			OperationType: opType,
			Errors:        errs,
			Duration:      time.Since(start),
		})
		results[i] = result
	}
	return results, allParams, nil
}

// extractParams validates one raw payload into OperationParams. URL query
// parameters are merged in for single requests only, winning on collision.
func extractParams(payload map[string]any, urlQuery url.Values, isBatch bool) (OperationParams, error) {
	effective := payload
	if !isBatch {
		effective = MergeQueryParams(payload, urlQuery)
	}

	params := OperationParams{Extra: effective}

	query, _ := effective["query"].(string)
	if query == "" {
		return params, NewRequestError(400, "Must provide query string.")
	}
	params.Query = query

	switch variables := effective["variables"].(type) {
	case nil:
	case map[string]any:
		params.Variables = variables
	case string:
		if variables != "" {
			if err := json.Unmarshal([]byte(variables), &params.Variables); err != nil {
				return params, NewRequestError(400, "Variables are invalid JSON.")
			}
		}
	default:
		return params, NewRequestError(400, "Variables are invalid JSON.")
	}

	if name, ok := effective["operationName"].(string); ok {
		params.OperationName = name
	}
	return params, nil
}

// classifyOperation parses the query text and names the operation kind that
// would run ("query", "mutation", "subscription"). Queries that do not parse
// classify as empty; the schema reports the syntax error itself.
func classifyOperation(query, operationName string) string {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return ""
	}
	op := doc.Operations.ForName(operationName)
	if op == nil && len(doc.Operations) == 1 {
		op = doc.Operations[0]
	}
	if op == nil {
		return ""
	}
	return string(op.Operation)
}
