package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postQuery(t *testing.T, h http.Handler, req GraphQLRequest) (*httptest.ResponseRecorder, GraphQLResponse) {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp GraphQLResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return w, resp
}

// TestGraphQLHTTPHandler tests the HTTP handler for GraphQL queries
func TestGraphQLHTTPHandler(t *testing.T) {
	f := newFixture(t)
	handler := NewGraphQLHandler(f.schema)

	w, resp := postQuery(t, handler, GraphQLRequest{
		Query: `query($id: ID!) { node(id: $id) { id kind } }`,
		Variables: map[string]any{"id": f.add.ID()},
	})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %s", w.Header().Get("Content-Type"))
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("Unexpected errors: %v", resp.Errors)
	}

	node := resp.Data.(map[string]any)["node"].(map[string]any)
	if node["kind"] != "add" {
		t.Errorf("Expected kind add, got %v", node["kind"])
	}
}

func TestGraphQLHTTPHandler_Errors(t *testing.T) {
	f := newFixture(t)
	handler := NewGraphQLHandler(f.schema, WithMaxDepth(1))

	_, resp := postQuery(t, handler, GraphQLRequest{Query: `{ nodes { upstream { id } } }`})
	if len(resp.Errors) == 0 {
		t.Error("Expected depth error")
	}

	_, resp = postQuery(t, handler, GraphQLRequest{Query: `{ nope }`})
	if len(resp.Errors) == 0 {
		t.Error("Expected validation error for unknown field")
	}
}

func TestGraphQLHTTPHandler_Methods(t *testing.T) {
	f := newFixture(t)
	handler := NewGraphQLHandler(f.schema)

	tests := []struct {
		method string
		body   string
		want   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodOptions, "", http.StatusOK},
		{http.MethodPost, "{not json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/graphql", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}
