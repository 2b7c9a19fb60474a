package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggerRecordsResultType(t *testing.T) {
	tests := []struct {
		name       string
		resultType string
		status     int
		want       []string
		notWant    string
	}{
		{name: "classified", resultType: "calendar", status: http.StatusOK, want: []string{`"level":"INFO"`, `"result_type":"calendar"`}},
		{name: "rejected", status: http.StatusBadRequest, want: []string{`"level":"WARN"`, `"status":400`}, notWant: "result_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.resultType != "" {
					w.Header().Set(ResultTypeHeader, tt.resultType)
				}
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`{"text":"secret"}`))
			RequestLogger(logger)(next).ServeHTTP(httptest.NewRecorder(), req)

			line := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Fatalf("log line %q does not contain %q", line, w)
				}
			}
			if tt.notWant != "" && strings.Contains(line, tt.notWant) {
				t.Fatalf("log line %q must not contain %q", line, tt.notWant)
			}
			if strings.Contains(line, "secret") {
				t.Fatalf("request body must not be logged: %q", line)
			}
		})
	}
}
