package graphiql

import (
	"strings"
	"testing"
)

func TestRenderEchoesRequest(t *testing.T) {
	html, err := Render("{ hello }", "HelloOp", map[string]any{"who": "world"}, `{"data":{"hello":"world"}}`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(html)
	for _, want := range []string{"{ hello }", "HelloOp", "who", `\"hello\":\"world\"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if !strings.Contains(doc, "GraphiQL") {
		t.Error("rendered page does not reference GraphiQL")
	}
}

func TestRenderEmptyState(t *testing.T) {
	html, err := Render("", "", nil, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "graphQLFetcher") {
		t.Error("rendered page missing fetcher wiring")
	}
}
