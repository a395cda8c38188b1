package httpquery

import (
	"encoding/json"
	"net/url"
	"strings"
)

// OperationParams is one decoded GraphQL operation as received on the wire,
// before validation. Extra retains the raw decoded fields so the explorer can
// echo them back.
type OperationParams struct {
	Query         string
	Variables     map[string]any
	OperationName string
	Extra         map[string]any
}

// DecodedBody is the untyped payload of one request body: either a single
// operation mapping or an ordered batch of them.
type DecodedBody struct {
	Single map[string]any
	Batch  []map[string]any
	// IsBatch records whether the wire shape was a JSON array, independent of
	// its length. The encoder uses it to decide between object and array
	// response bodies.
	IsBatch bool
}

// DecodeBody interprets a request body according to its declared content
// type. The type token is matched case-insensitively with parameters
// stripped. Unknown or absent content types decode to an empty mapping; the
// runner rejects those later for lacking a query.
func DecodeBody(contentType string, body []byte, form url.Values) (*DecodedBody, error) {
	token, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "application/graphql":
		return &DecodedBody{Single: map[string]any{"query": string(body)}}, nil

	case "application/json":
		return decodeJSONBody(body)

	case "application/x-www-form-urlencoded", "multipart/form-data":
		single := make(map[string]any, len(form))
		for key := range form {
			single[key] = form.Get(key)
		}
		return &DecodedBody{Single: single}, nil

	default:
		return &DecodedBody{Single: map[string]any{}}, nil
	}
}

func decodeJSONBody(body []byte) (*DecodedBody, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewRequestError(400, "POST body sent invalid JSON")
	}
	switch v := payload.(type) {
	case map[string]any:
		return &DecodedBody{Single: v}, nil
	case []any:
		batch := make([]map[string]any, len(v))
		for i, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, NewRequestError(400, "GraphQL params should be a mapping.")
			}
			batch[i] = m
		}
		return &DecodedBody{Batch: batch, IsBatch: true}, nil
	default:
		return nil, NewRequestError(400, "GraphQL params should be a mapping.")
	}
}

// MergeQueryParams merges URL query parameters into a decoded single-payload
// body, query parameters winning on key collision. Batch payloads are never
// merged; the caller applies this to the Single shape only.
func MergeQueryParams(decoded map[string]any, urlQuery url.Values) map[string]any {
	merged := make(map[string]any, len(decoded)+len(urlQuery))
	for key, value := range decoded {
		merged[key] = value
	}
	for key := range urlQuery {
		merged[key] = urlQuery.Get(key)
	}
	return merged
}
