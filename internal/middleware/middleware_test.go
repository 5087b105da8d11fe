package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/retrovault/backend/pkg/helpers"
	"github.com/retrovault/backend/pkg/logger"
)

type stubVerifier struct {
	uid string
	err error
	got string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	s.got = token
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{UID: s.uid}, nil
}

func TestFirebaseAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
		status   int
		uid      string
	}{
		{name: "missing header", verifier: &stubVerifier{}, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", verifier: &stubVerifier{}, status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", verifier: &stubVerifier{err: errors.New("expired")}, status: http.StatusUnauthorized},
		{name: "ok", header: "Bearer abc", verifier: &stubVerifier{uid: "u1"}, status: http.StatusOK, uid: "u1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/sync", nil).WithContext(helpers.TestCtx())
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			NewMiddleware(tc.verifier).FirebaseAuth(next).ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if gotUID != tc.uid {
				t.Fatalf("expected uid %q, got %q", tc.uid, gotUID)
			}
		})
	}
}

func TestLoggerMiddleware_AddsLogger(t *testing.T) {
	base := logger.New("debug", logger.NewTestHandler)

	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logger.FromContext(r.Context()) != base
		w.WriteHeader(http.StatusNoContent)
	})

	h := chimiddleware.RequestID(NewLoggerMiddleware(base).LoggerMiddleware(next))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	if !sawLogger {
		t.Fatalf("expected request-scoped logger on context")
	}
}
