package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/chat"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/metrics"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

type fakeChat struct {
	lastReq chat.Request
	resp    chat.Response
	err     error
	convs   []types.Conversation
	msgs    []types.Message
	deleted string
}

func (f *fakeChat) Reply(ctx context.Context, req chat.Request) (chat.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeChat) Conversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	if userID == "" {
		return nil, apperr.Validation("userId is required")
	}
	return f.convs, f.err
}

func (f *fakeChat) Messages(ctx context.Context, conversationID string) ([]types.Message, error) {
	if conversationID == "missing" {
		return nil, apperr.NotFound("conversation not found")
	}
	return f.msgs, f.err
}

func (f *fakeChat) Delete(ctx context.Context, conversationID string) error {
	f.deleted = conversationID
	return f.err
}

type fakeFeedback struct {
	in  learning.FeedbackInput
	err error
}

func (f *fakeFeedback) ProcessFeedback(ctx context.Context, in learning.FeedbackInput) (learning.FeedbackResult, error) {
	f.in = in
	if f.err != nil {
		return learning.FeedbackResult{}, f.err
	}
	if err := in.Validate(); err != nil {
		return learning.FeedbackResult{}, err
	}
	return learning.FeedbackResult{Success: true, Message: learning.ThankYouMessage}, nil
}

type fakeHealth struct{ err error }

func (f fakeHealth) Ping(ctx context.Context) error { return f.err }

func newTestServer(c *fakeChat, fb *fakeFeedback, limiter *RateLimiter) *Server {
	reg := prometheus.NewRegistry()
	return New(c, fb, fakeHealth{}, Options{
		Limiter:  limiter,
		Metrics:  metrics.NewMetrics(reg),
		Gatherer: reg,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func doFrom(t *testing.T, s *Server, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"Hello","userId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChatSuccess(t *testing.T) {
	c := &fakeChat{resp: chat.Response{Message: "Hello!", ConversationID: "c1", FeaturesSuggested: []string{}}}
	s := newTestServer(c, &fakeFeedback{}, nil)

	rec := do(t, s, http.MethodPost, "/chat", `{"message":"Hello","userId":"u1","language":"fr","platformKey":"acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Hello!", body["message"])
	assert.Equal(t, "c1", body["conversationId"])
	assert.Equal(t, []any{}, body["featuresSuggested"])
	assert.Equal(t, chat.Request{Message: "Hello", UserID: "u1", Language: "fr", PlatformKey: "acme"}, c.lastReq)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperr.Validation("Message and userId are required"), http.StatusBadRequest, "Message and userId are required"},
		{"configuration", apperr.Configuration("OPENAI_API_KEY not configured"), http.StatusInternalServerError, genericChatError},
		{"upstream", apperr.Upstream("failed to save user message", errors.New("pq: connection refused")), http.StatusInternalServerError, genericChatError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeChat{err: tt.err}, &fakeFeedback{}, nil)
			rec := do(t, s, http.MethodPost, "/chat", `{"message":"Hello","userId":"u1"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decode(t, rec)["error"])
		})
	}
}

func TestFeedback(t *testing.T) {
	fb := &fakeFeedback{}
	s := newTestServer(&fakeChat{}, fb, nil)

	rec := do(t, s, http.MethodPost, "/feedback", `{"messageId":"m1","conversationId":"c1","feedbackType":"helpful","rating":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Thank you for your feedback! This helps us improve.", body["message"])
	assert.Equal(t, 5, fb.in.Rating)

	rec = do(t, s, http.MethodPost, "/feedback", `{"messageId":"m1","conversationId":"c1","feedbackType":"helpful","rating":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Rating must be between 1 and 5", decode(t, rec)["error"])

	rec = do(t, s, http.MethodPost, "/feedback", `{"messageId":"m1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	fb.err = apperr.Upstream("failed to store feedback", errors.New("disk full"))
	rec = do(t, s, http.MethodPost, "/feedback", `{"messageId":"m1","conversationId":"c1","feedbackType":"helpful","rating":5}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to process feedback", decode(t, rec)["error"])
}

func TestConversationRoutes(t *testing.T) {
	c := &fakeChat{
		convs: []types.Conversation{{ID: "c1", UserID: "u1", Title: "Hello"}},
		msgs:  []types.Message{{ID: "m1", ConversationID: "c1", Role: types.RoleUser, Content: "Hello"}},
	}
	s := newTestServer(c, &fakeFeedback{}, nil)

	rec := do(t, s, http.MethodGet, "/conversations?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["conversations"], 1)

	rec = do(t, s, http.MethodGet, "/conversations", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/conversations/c1/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["messages"], 1)

	rec = do(t, s, http.MethodGet, "/conversations/missing/messages", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/conversations/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "c1", c.deleted)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeChat{}, &fakeFeedback{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://widget.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-client-info")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(&fakeChat{resp: chat.Response{Message: "hi", ConversationID: "c1"}}, &fakeFeedback{}, NewRateLimiter(1, 1))

	rec := do(t, s, http.MethodPost, "/chat", `{"message":"Hello","userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/chat", `{"message":"Hello","userId":"u1"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	s := newTestServer(&fakeChat{resp: chat.Response{Message: "hi", ConversationID: "c1"}}, &fakeFeedback{}, NewRateLimiter(1, 1))

	rec := doFrom(t, s, "192.0.2.1:1234", "1.1.1.1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doFrom(t, s, "192.0.2.1:1234", "2.2.2.2")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitTrustedProxy(t *testing.T) {
	_, proxy, err := net.ParseCIDR("192.0.2.0/24")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	s := New(&fakeChat{resp: chat.Response{Message: "hi", ConversationID: "c1"}}, &fakeFeedback{}, fakeHealth{}, Options{
		Limiter:        NewRateLimiter(1, 1),
		Metrics:        metrics.NewMetrics(reg),
		Gatherer:       reg,
		TrustedProxies: []*net.IPNet{proxy},
	})

	rec := doFrom(t, s, "192.0.2.1:1234", "198.51.100.1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doFrom(t, s, "192.0.2.1:1234", "198.51.100.2")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doFrom(t, s, "192.0.2.1:1234", "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		assert.True(t, rl.Allow(ip))
	}
	assert.Len(t, rl.limits, 3)

	now = now.Add(5 * time.Minute)
	assert.False(t, rl.Allow("1.1.1.1"))

	now = now.Add(limiterIdleTTL)
	assert.True(t, rl.Allow("4.4.4.4"))
	assert.Len(t, rl.limits, 2)
	assert.Contains(t, rl.limits, "1.1.1.1")
	assert.Contains(t, rl.limits, "4.4.4.4")
}

func TestRateLimitDisabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, 20))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(&fakeChat{}, &fakeFeedback{}, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatbot_http_requests_total")

	unhealthy := New(&fakeChat{}, &fakeFeedback{}, fakeHealth{err: errors.New("down")}, Options{Gatherer: prometheus.NewRegistry()})
	rec = do(t, unhealthy, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
