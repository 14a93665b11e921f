package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		path    string
		header  string
		want    int
		wantMsg string
	}{
		{name: "no keys passes through", path: "/search", want: http.StatusOK},
		{name: "blank keys pass through", keys: []string{"", ""}, path: "/search", want: http.StatusOK},
		{name: "missing header", keys: []string{"secret"}, path: "/search",
			want: http.StatusUnauthorized, wantMsg: "missing authorization header"},
		{name: "basic scheme", keys: []string{"secret"}, path: "/search", header: "Basic dXNlcjpwYXNz",
			want: http.StatusUnauthorized, wantMsg: "authorization header must use Bearer scheme"},
		{name: "wrong key", keys: []string{"secret"}, path: "/search", header: "Bearer wrong",
			want: http.StatusUnauthorized, wantMsg: "invalid api key"},
		{name: "key prefix", keys: []string{"secret"}, path: "/search", header: "Bearer secre",
			want: http.StatusUnauthorized, wantMsg: "invalid api key"},
		{name: "valid key", keys: []string{"secret"}, path: "/search", header: "Bearer secret", want: http.StatusOK},
		{name: "second of two keys", keys: []string{"k1", "k2"}, path: "/search", header: "Bearer k2", want: http.StatusOK},
		{name: "health exempt", keys: []string{"secret"}, path: "/health", want: http.StatusOK},
		{name: "metrics exempt", keys: []string{"secret"}, path: "/metrics", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tc.keys)(okHandler())

			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("got %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate challenge")
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized || errResp.Message != tc.wantMsg {
				t.Errorf("got %s %q, want %s %q", errResp.Code, errResp.Message, ErrorCodeUnauthorized, tc.wantMsg)
			}
		})
	}
}
