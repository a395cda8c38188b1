package httpquery

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func runOpts() RunOptions {
	return RunOptions{BatchEnabled: true}
}

func TestRunHTTPQuerySingle(t *testing.T) {
	schema := NewMockSchema(func(ctx context.Context, req ExecutionRequest) *Result {
		return &Result{Data: map[string]any{"echo": req.Query}}
	})
	body := &DecodedBody{Single: map[string]any{"query": "{ hello }"}}

	results, params, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, params, 1)
	require.Equal(t, "{ hello }", params[0].Query)
	require.Equal(t, map[string]any{"echo": "{ hello }"}, results[0].Data)
}

func TestRunHTTPQueryForwardsExecutionInputs(t *testing.T) {
	schema := NewMockSchema(nil)
	root := map[string]any{"seed": true}
	mw := []Middleware{MiddlewareFunc(func(next Resolver) Resolver { return next })}
	body := &DecodedBody{Single: map[string]any{
		"query":         "query Op($a: Int) { hello }",
		"operationName": "Op",
		"variables":     map[string]any{"a": float64(1)},
	}}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, RunOptions{
		BatchEnabled: true,
		RootValue:    root,
		ContextValue: "ctxval",
		Middleware:   mw,
	})
	require.NoError(t, err)

	calls := schema.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "Op", calls[0].OperationName)
	require.Equal(t, map[string]any{"a": float64(1)}, calls[0].Variables)
	require.Equal(t, root, calls[0].RootValue)
	require.Equal(t, "ctxval", calls[0].ContextValue)
	require.Len(t, calls[0].Middleware, 1)
}

func TestRunHTTPQueryBatchKeepsOrder(t *testing.T) {
	schema := NewMockSchema(func(ctx context.Context, req ExecutionRequest) *Result {
		return &Result{Data: req.Query}
	})
	body := &DecodedBody{
		Batch:   []map[string]any{{"query": "{a}"}, {"query": "{b}"}},
		IsBatch: true,
	}

	results, params, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "{a}", results[0].Data)
	require.Equal(t, "{b}", results[1].Data)
	require.Equal(t, "{a}", params[0].Query)
	require.Equal(t, "{b}", params[1].Query)
}

func TestRunHTTPQueryBatchDisabled(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Batch: []map[string]any{{"query": "{a}"}}, IsBatch: true}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, RunOptions{BatchEnabled: false})
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 400, qerr.StatusCode)
	require.Equal(t, "Batch GraphQL requests are not enabled.", qerr.Message)
	require.Empty(t, schema.Calls())
}

func TestRunHTTPQueryEmptyBatch(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{IsBatch: true}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 400, qerr.StatusCode)
	require.Equal(t, "Received an empty list in the batch request.", qerr.Message)
}

func TestRunHTTPQueryMissingQuery(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Single: map[string]any{}}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 400, qerr.StatusCode)
	require.Equal(t, "Must provide query string.", qerr.Message)
}

func TestRunHTTPQueryQueryFromURLForSingle(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Single: map[string]any{}}
	urlQuery := url.Values{"query": {"{ hello }"}}

	_, params, err := RunHTTPQuery(context.Background(), schema, "GET", body, urlQuery, runOpts())
	require.NoError(t, err)
	require.Equal(t, "{ hello }", params[0].Query)
}

func TestRunHTTPQueryBatchIgnoresURLParams(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Batch: []map[string]any{{}}, IsBatch: true}
	urlQuery := url.Values{"query": {"{ hello }"}}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, urlQuery, runOpts())
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, "Must provide query string.", qerr.Message)
}

func TestRunHTTPQueryVariablesAsJSONString(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Single: map[string]any{
		"query":     "{ hello }",
		"variables": `{"who":"world"}`,
	}}

	_, params, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	require.NoError(t, err)
	require.Equal(t, map[string]any{"who": "world"}, params[0].Variables)
}

func TestRunHTTPQueryInvalidVariables(t *testing.T) {
	schema := NewMockSchema(nil)
	for _, variables := range []any{"{", float64(7), []any{"x"}} {
		body := &DecodedBody{Single: map[string]any{
			"query":     "{ hello }",
			"variables": variables,
		}}
		_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
		var qerr *RequestError
		require.ErrorAs(t, err, &qerr, "variables %v", variables)
		require.Equal(t, 400, qerr.StatusCode)
		require.Equal(t, "Variables are invalid JSON.", qerr.Message)
	}
	require.Empty(t, schema.Calls())
}

func TestRunHTTPQueryRejectsMutationOverGet(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Single: map[string]any{"query": "mutation { doIt }"}}

	_, _, err := RunHTTPQuery(context.Background(), schema, "GET", body, nil, runOpts())
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 405, qerr.StatusCode)
	require.Equal(t, "Can only perform a mutation operation from a POST request.", qerr.Message)
	require.Empty(t, schema.Calls())
}

func TestRunHTTPQueryGetAllowsSelectedQueryOperation(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{Single: map[string]any{
		"query":         "query Read { hello } mutation Write { doIt }",
		"operationName": "Read",
	}}

	_, _, err := RunHTTPQuery(context.Background(), schema, "GET", body, nil, runOpts())
	require.NoError(t, err)
	require.Len(t, schema.Calls(), 1)
}

func TestRunHTTPQueryGetUnparseableQueryReachesSchema(t *testing.T) {
	schema := NewMockSchema(func(ctx context.Context, req ExecutionRequest) *Result {
		return &Result{Errors: []FormattedError{{Message: "syntax error"}}}
	})
	body := &DecodedBody{Single: map[string]any{"query": "{{{ nope"}}

	results, _, err := RunHTTPQuery(context.Background(), schema, "GET", body, nil, runOpts())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
}

func TestRunHTTPQueryBatchAbortsOnBadPayload(t *testing.T) {
	schema := NewMockSchema(nil)
	body := &DecodedBody{
		Batch:   []map[string]any{{"query": "{a}"}, {}},
		IsBatch: true,
	}

	_, _, err := RunHTTPQuery(context.Background(), schema, "POST", body, nil, runOpts())
	var qerr *RequestError
	require.ErrorAs(t, err, &qerr)
	// Extraction errors abort the whole batch before anything executes.
	require.Empty(t, schema.Calls())
}
