package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"inventory/advisor"
	"inventory/database"
	"inventory/events"
	"inventory/handlers"
	"inventory/logging"
	"inventory/metrics"
	"inventory/middleware"
	"inventory/models"
	"inventory/routes"
)

const password = "secret123"

var secret = []byte("handler-test-secret")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) PublishOrder(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Status)
	}
	return out
}

type stubAdvisor struct {
	text string
	err  error
	last models.ProductView
}

func (a *stubAdvisor) Explain(_ context.Context, p models.ProductView) (string, error) {
	a.last = p
	return a.text, a.err
}

func (a *stubAdvisor) Close() error { return nil }

type testEnv struct {
	t         *testing.T
	app       *fiber.App
	store     *database.MemoryStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newEnv(t *testing.T, adv advisor.Advisor) *testEnv {
	t.Helper()
	store := database.NewMemoryStore()
	publisher := &recordingPublisher{}
	m := metrics.New()

	h := handlers.New(handlers.Options{
		Store:     store,
		Logger:    logging.Nop(),
		Metrics:   m,
		Events:    publisher,
		Advisor:   adv,
		JWTSecret: secret,
		TokenTTL:  time.Hour,
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Nop())})
	routes.SetupRoutes(app, h, secret, m)
	return &testEnv{t: t, app: app, store: store, publisher: publisher, metrics: m}
}

type response struct {
	Status  int
	Body    map[string]interface{}
	RawBody []byte
}

func (r response) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (r response) list() []interface{} {
	l, _ := r.Body["data"].([]interface{})
	return l
}

func (e *testEnv) do(method, path, token string, body interface{}) response {
	e.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	out := response{Status: resp.StatusCode, RawBody: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &out.Body))
	}
	return out
}

func (e *testEnv) register(body map[string]interface{}) response {
	e.t.Helper()
	return e.do("POST", "/api/v1/auth/register", "", body)
}

func (e *testEnv) login(username string) string {
	e.t.Helper()
	resp := e.do("POST", "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(e.t, 200, resp.Status, string(resp.RawBody))
	token, _ := resp.Body["accessToken"].(string)
	require.NotEmpty(e.t, token)
	return token
}

// staff registers a staff user and returns its token.
func (e *testEnv) staff(username string) string {
	e.t.Helper()
	resp := e.register(map[string]interface{}{"username": username, "password": password})
	require.Equal(e.t, 201, resp.Status, string(resp.RawBody))
	return e.login(username)
}

// supplier registers a supplier account and returns its token and supplier id.
func (e *testEnv) supplier(username, company string) (string, string) {
	e.t.Helper()
	resp := e.register(map[string]interface{}{
		"username":    username,
		"password":    password,
		"role":        "supplier",
		"name":        company,
		"contactInfo": "orders@" + username + ".example",
	})
	require.Equal(e.t, 201, resp.Status, string(resp.RawBody))
	token := e.login(username)

	user, err := e.store.GetUserByUsername(context.Background(), username)
	require.NoError(e.t, err)
	sup, err := e.store.GetSupplierByUserID(context.Background(), user.ID)
	require.NoError(e.t, err)
	return token, sup.ID
}

func (e *testEnv) createProduct(token string, body map[string]interface{}) string {
	e.t.Helper()
	resp := e.do("POST", "/api/v1/products", token, body)
	require.Equal(e.t, 201, resp.Status, string(resp.RawBody))
	id, _ := resp.data()["id"].(string)
	require.NotEmpty(e.t, id)
	return id
}
