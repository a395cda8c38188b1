// Package graphiql renders the in-browser GraphiQL IDE with the current
// query, variables, operation name, and latest result pre-filled.
package graphiql

import (
	"bytes"
	"encoding/json"
	"html/template"
)

const graphiqlVersion = "2.4.7"

var page = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <style>
    html, body { height: 100%; margin: 0; width: 100%; overflow: hidden; }
    #graphiql { height: 100vh; }
  </style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@{{.Version}}/graphiql.min.css" />
  <script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script src="https://unpkg.com/graphiql@{{.Version}}/graphiql.min.js"></script>
</head>
<body>
  <div id="graphiql">Loading…</div>
  <script>
    var fetchURL = window.location.pathname + window.location.search;

    function graphQLFetcher(graphQLParams) {
      return fetch(fetchURL, {
        method: 'post',
        headers: {
          'Accept': 'application/json',
          'Content-Type': 'application/json'
        },
        body: JSON.stringify(graphQLParams),
        credentials: 'include'
      }).then(function (response) {
        return response.json();
      });
    }

    ReactDOM.createRoot(document.getElementById('graphiql')).render(
      React.createElement(GraphiQL, {
        fetcher: graphQLFetcher,
        query: {{.Query}},
        variables: {{.Variables}},
        operationName: {{.OperationName}},
        response: {{.Result}}
      })
    );
  </script>
</body>
</html>
`))

type pageData struct {
	Version       string
	Query         string
	Variables     string
	OperationName string
	Result        string
}

// Render produces the explorer HTML document. variables and resultJSON are
// embedded as editor contents; both may be empty.
func Render(query, operationName string, variables map[string]any, resultJSON string) ([]byte, error) {
	variablesJSON := ""
	if len(variables) > 0 {
		raw, err := json.MarshalIndent(variables, "", "  ")
		if err != nil {
			return nil, err
		}
		variablesJSON = string(raw)
	}

	var buf bytes.Buffer
	err := page.Execute(&buf, pageData{
		Version:       graphiqlVersion,
		Query:         query,
		Variables:     variablesJSON,
		OperationName: operationName,
		Result:        resultJSON,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
