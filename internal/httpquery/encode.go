package httpquery

import "encoding/json"

// formattedResult is the response shape of one execution result. Data is
// always present, errors only when at least one occurred.
type formattedResult struct {
	Data   any              `json:"data"`
	Errors []FormattedError `json:"errors,omitempty"`
}

// EncodeResults serializes execution results into a JSON response body and
// derives the aggregate HTTP status. A non-batch request serializes its
// single result bare; a batch serializes as a parallel array even when it
// holds one element. The status is the max over per-result statuses: 200 for
// a clean result, 400 for any result carrying errors.
func EncodeResults(results []*Result, isBatch, pretty bool) ([]byte, int, error) {
	status := 200
	formatted := make([]formattedResult, len(results))
	for i, result := range results {
		formatted[i] = formattedResult{Data: result.Data, Errors: result.Errors}
		if code := result.statusCode(); code > status {
			status = code
		}
	}

	var payload any = formatted
	if !isBatch {
		payload = formatted[0]
	}

	body, err := marshal(payload, pretty)
	if err != nil {
		return nil, 0, err
	}
	return body, status, nil
}

// EncodeRequestError serializes a request-level failure as a bare errors
// list, the shape clients see when no operation ran at all.
func EncodeRequestError(qerr *RequestError, pretty bool) ([]byte, error) {
	payload := map[string][]FormattedError{
		"errors": {{Message: qerr.Message}},
	}
	return marshal(payload, pretty)
}

func marshal(payload any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(payload, "", "  ")
	}
	return json.Marshal(payload)
}
