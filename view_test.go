package weblog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func panickingHandler(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(v)
	})
}

func TestSecureView_SuppressesInProduction(t *testing.T) {
	var buf syncBuffer
	metrics := &recordingMetrics{}
	logger := newTestLogger(t, &buf, metrics, WithDebug(false))

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{})

	req := httptest.NewRequest(http.MethodGet, "/boom?id=3", nil)
	rr := httptest.NewRecorder()
	view.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	got := buf.String()
	if !strings.Contains(got, "URL: /boom?id=3") {
		t.Fatalf("output = %q, want the full request URL", got)
	}
	if !strings.Contains(got, "Method: GET") {
		t.Fatalf("output = %q, want the request method", got)
	}
	if metrics.writeCount() != 1 {
		t.Fatalf("recorded writes = %d, want exactly one log entry", metrics.writeCount())
	}
	if outcomes := metrics.panicOutcomes(); len(outcomes) != 1 || outcomes[0] != outcomeSuppressed {
		t.Fatalf("panic outcomes = %v, want [%s]", outcomes, outcomeSuppressed)
	}
}

func TestSecureView_RepanicsInDebug(t *testing.T) {
	var buf syncBuffer
	metrics := &recordingMetrics{}
	logger := newTestLogger(t, &buf, metrics, WithDebug(true))

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{})

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		view.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}()

	if recovered != errUpstream {
		t.Fatalf("recovered = %v, want the original panic value", recovered)
	}
	if metrics.writeCount() != 1 {
		t.Fatalf("recorded writes = %d, want the record before re-panicking", metrics.writeCount())
	}
}

func TestSecureView_ExplicitOverrideBeatsDebugFlag(t *testing.T) {
	var buf syncBuffer
	logger := newTestLogger(t, &buf, &recordingMetrics{}, WithDebug(true))

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{
		Repanic: Set(false),
	})

	rr := httptest.NewRecorder()
	view.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want suppression despite debug flag", rr.Code)
	}
}

func TestSecureView_CustomFallback(t *testing.T) {
	var buf syncBuffer
	logger := newTestLogger(t, &buf, &recordingMetrics{}, WithDebug(false))

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{
		Fallback: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	})

	rr := httptest.NewRecorder()
	view.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want the fallback handler's status", rr.Code)
	}
}

func TestSecureView_UnmatchedPanicPropagates(t *testing.T) {
	var buf syncBuffer
	metrics := &recordingMetrics{}
	logger := newTestLogger(t, &buf, metrics, WithDebug(false))

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{
		Match: MatchType[*timeoutError](),
	})

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		view.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}()

	if recovered != errUpstream {
		t.Fatalf("recovered = %v, want unmatched panic to propagate", recovered)
	}
	if metrics.writeCount() != 0 {
		t.Fatalf("recorded writes = %d, want none for an unmatched panic", metrics.writeCount())
	}
}

func TestSecureView_MessageAndUserIncluded(t *testing.T) {
	var buf syncBuffer
	logger := newTestLogger(t, &buf, &recordingMetrics{},
		WithDebug(false),
		WithUserFunc(func(r *http.Request) (string, bool) {
			user := r.Header.Get("X-User")
			return user, user != ""
		}),
	)

	view := logger.SecureView(panickingHandler(errUpstream), ViewOptions{
		Message: "checkout failed",
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set("X-User", "alice")
	view.ServeHTTP(httptest.NewRecorder(), req)

	got := buf.String()
	if !strings.Contains(got, "User: alice") {
		t.Fatalf("output = %q, want the authenticated user", got)
	}
	if !strings.Contains(got, "checkout failed") {
		t.Fatalf("output = %q, want the static message", got)
	}
}

func TestSecureViewFunc_WrapsHandlerFunc(t *testing.T) {
	var buf syncBuffer
	logger := newTestLogger(t, &buf, &recordingMetrics{}, WithDebug(false))

	called := false
	view := logger.SecureViewFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, ViewOptions{})

	view(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("wrapped handler was not invoked")
	}
}
