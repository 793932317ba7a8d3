package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovatrack/internal/handler"
	"renovatrack/internal/mailer"
	"renovatrack/internal/mq"
	"renovatrack/internal/mqhandler"
	"renovatrack/internal/repository"
	"renovatrack/internal/repository/memory"
	"renovatrack/internal/service"
)

type nopMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (m *nopMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

type testServer struct {
	router *Router
	store  *repository.Store
	mail   *nopMailer
}

// newTestServer wires the full memory-mode stack: memory store, in-process
// event bus with both lead.captured subscribers, and a recording mailer.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := memory.NewStore()
	mail := &nopMailer{}

	dripService := service.NewDripService(
		store.Subscribers, store.DripJobs, store.CampaignSends,
		mail, nil, logger, 48*time.Hour, 120*time.Hour,
	)

	bus := mq.NewInprocBus(logger)
	notiHandler := mqhandler.NewNotificationHandler(mail, "office@example.com", logger)
	dripHandler := mqhandler.NewDripEnrollHandler(dripService, logger)
	bus.Subscribe(mq.KeyLeadCaptured, notiHandler.HandleLeadCaptured)
	bus.Subscribe(mq.KeyLeadCaptured, dripHandler.HandleLeadCaptured)
	bus.Subscribe(mq.KeyEstimateRequested, notiHandler.HandleEstimateRequested)
	bus.Subscribe(mq.KeyMessageReceived, notiHandler.HandleMessageReceived)

	authService := service.NewAuthService(store.Users, "test-secret", logger)
	if err := authService.SeedAdmin(context.Background(), "admin", "hunter2"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	projectService := service.NewProjectService(store.Projects, store.ProjectLogs, store.Milestones, logger)
	leadService := service.NewLeadService(store.Leads, bus, logger)
	estimateService := service.NewEstimateService(store.Estimates, bus, logger)
	messageService := service.NewMessageService(store.Messages, bus, logger)

	router := NewRouter(Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Project:     handler.NewProjectHandler(projectService),
		Track:       handler.NewTrackHandler(projectService),
		Lead:        handler.NewLeadHandler(leadService),
		Estimate:    handler.NewEstimateHandler(estimateService),
		Message:     handler.NewMessageHandler(messageService),
		Testimonial: handler.NewTestimonialHandler(store.Testimonials),
		Subscriber:  handler.NewSubscriberHandler(dripService),
		Chat:        handler.NewChatHandler(store.Chat),
	}, "test-secret", nil)

	return &testServer{router: router, store: store, mail: mail}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.Engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestLeadCaptureRejectsInvalidPayload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/leads", "", map[string]string{
		"name": "No Email",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	leads, _ := s.store.Leads.List(context.Background())
	if len(leads) != 0 {
		t.Fatalf("invalid payload persisted %d leads", len(leads))
	}
}

func TestLeadCaptureEnrollsAndNotifies(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/leads", "", map[string]string{
		"name":         "Lee Park",
		"email":        "lee@example.com",
		"project_type": "bathroom",
		"source":       "contact_form",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	ctx := context.Background()
	leads, _ := s.store.Leads.List(ctx)
	if len(leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(leads))
	}

	sub, err := s.store.Subscribers.FindByEmail(ctx, "lee@example.com")
	if err != nil {
		t.Fatalf("lead was not enrolled: %v", err)
	}
	if sub.FirstName != "Lee" {
		t.Fatalf("first name = %q, want %q", sub.FirstName, "Lee")
	}

	// Admin notification plus welcome drip email.
	s.mail.mu.Lock()
	defer s.mail.mu.Unlock()
	var toAdmin, toLead int
	for _, e := range s.mail.sent {
		switch e.To {
		case "office@example.com":
			toAdmin++
		case "lee@example.com":
			toLead++
		}
	}
	if toAdmin != 1 || toLead != 1 {
		t.Fatalf("admin emails = %d, lead emails = %d, want 1 and 1", toAdmin, toLead)
	}
}

func TestMagicLinkLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"client_name":  "Dana Whitfield",
		"client_email": "dana@example.com",
		"project_type": "kitchen",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create project status = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		ID          int64  `json:"id"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.AccessToken == "" {
		t.Fatal("create response carries no access token")
	}

	if w := s.do(t, http.MethodGet, "/api/track/"+created.AccessToken, "", nil); w.Code != http.StatusOK {
		t.Fatalf("track status = %d, want 200", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/track/no-such-token", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown token status = %d, want 404", w.Code)
	}

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/regenerate-link", created.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d, body = %s", w.Code, w.Body.String())
	}
	var regenerated struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &regenerated); err != nil {
		t.Fatalf("decode regenerate response: %v", err)
	}
	if regenerated.AccessToken == created.AccessToken {
		t.Fatal("regenerate returned the old token")
	}

	if w := s.do(t, http.MethodGet, "/api/track/"+created.AccessToken, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("old token status = %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/track/"+regenerated.AccessToken, "", nil); w.Code != http.StatusOK {
		t.Fatalf("new token status = %d, want 200", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	if w := s.do(t, http.MethodGet, "/api/projects", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/projects", "not-a-jwt", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", w.Code)
	}
}

func TestProgressValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"client_name":  "Dana Whitfield",
		"client_email": "dana@example.com",
		"project_type": "kitchen",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create project status = %d", w.Code)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := fmt.Sprintf("/api/projects/%d/progress", created.ID)
	if w := s.do(t, http.MethodPatch, path, token, map[string]int{"progress": 150}); w.Code != http.StatusBadRequest {
		t.Fatalf("progress 150 status = %d, want 400", w.Code)
	}
	if w := s.do(t, http.MethodPatch, path, token, map[string]int{"progress": 55}); w.Code != http.StatusOK {
		t.Fatalf("progress 55 status = %d, want 200", w.Code)
	}

	p, err := s.store.Projects.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find project: %v", err)
	}
	if p.Progress != 55 {
		t.Fatalf("stored progress = %d, want 55", p.Progress)
	}
}

func TestUnsubscribeDoesNotRevealSubscription(t *testing.T) {
	s := newTestServer(t)

	// Unknown address still reports success.
	w := s.do(t, http.MethodPost, "/api/subscribers/unsubscribe", "", map[string]string{
		"email": "nobody@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unknown email status = %d, want 200", w.Code)
	}

	// Capture a lead, then unsubscribe it for real.
	s.do(t, http.MethodPost, "/api/leads", "", map[string]string{
		"name":  "Lee Park",
		"email": "lee@example.com",
	})
	w = s.do(t, http.MethodPost, "/api/subscribers/unsubscribe", "", map[string]string{
		"email": "lee@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unsubscribe status = %d, want 200", w.Code)
	}

	sub, err := s.store.Subscribers.FindByEmail(context.Background(), "lee@example.com")
	if err != nil {
		t.Fatalf("find subscriber: %v", err)
	}
	if sub.Active {
		t.Fatal("subscriber still active after unsubscribe")
	}
}

func TestPublicTestimonialsOnlyPublished(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	for _, tc := range []struct {
		name      string
		published bool
	}{
		{"Published Client", true},
		{"Pending Client", false},
	} {
		w := s.do(t, http.MethodPost, "/api/testimonials", token, map[string]any{
			"client_name": tc.name,
			"rating":      5,
			"text":        "Great work",
			"published":   tc.published,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create testimonial status = %d, body = %s", w.Code, w.Body.String())
		}
	}

	w := s.do(t, http.MethodGet, "/api/testimonials", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp struct {
		Testimonials []struct {
			ClientName string `json:"client_name"`
		} `json:"testimonials"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Testimonials) != 1 || resp.Testimonials[0].ClientName != "Published Client" {
		t.Fatalf("public list = %+v, want the published testimonial only", resp.Testimonials)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
}
