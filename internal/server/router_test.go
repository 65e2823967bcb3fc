package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zbpk/Samfolio-Hub/internal/config"
	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/payments"
)

type stubProvider struct {
	sessions map[string]*payments.CheckoutSession
	n        int
}

func (s *stubProvider) CreateSession(p payments.SessionParams) (*payments.CheckoutSession, error) {
	s.n++
	id := fmt.Sprintf("cs_test_%d", s.n)
	sess := &payments.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.example.com/" + id,
		PaymentStatus: "unpaid",
		CustomerEmail: p.CustomerEmail,
		AmountTotal:   p.UnitAmount,
		Metadata:      p.Metadata,
	}
	if s.sessions == nil {
		s.sessions = map[string]*payments.CheckoutSession{}
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *stubProvider) RetrieveSession(id string) (*payments.CheckoutSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session %s", id)
	}
	return sess, nil
}

func setupApp(t *testing.T, adminPassword string) (http.Handler, *stubProvider) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = dbConn.AutoMigrate(&models.Message{}, &models.ProjectInquiry{}, &models.Order{},
		&models.Payment{}, &models.Expense{}, &models.AdminSetting{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{
		Port:                 "0",
		BaseURL:              "https://studio.example.com",
		AdminPassword:        adminPassword,
		StripePublishableKey: "pk_test_abc",
	}
	provider := &stubProvider{}
	return New(dbConn, cfg, provider), provider
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func loginAdmin(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/admin/login", map[string]string{"password": "hunter2"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decode(t, rec, &out)
	if !out.Success || out.Token == "" {
		t.Fatalf("login response: %+v", out)
	}
	return out.Token
}

func TestContactEndpoint(t *testing.T) {
	h, _ := setupApp(t, "hunter2")

	rec := doJSON(t, h, http.MethodPost, "/api/contact",
		map[string]string{"name": "Jo", "email": "jo@example.com", "message": "hi"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("contact: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/contact",
		map[string]string{"name": "Jo", "email": "not-an-email", "message": "hi"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	if body.Message == "" {
		t.Fatal("validation failure should carry a message")
	}
}

func TestProjectInquiryAndWaitlistCount(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	rec := doJSON(t, h, http.MethodPost, "/api/project-inquiry", map[string]any{
		"name":               "Jo",
		"email":              "jo@example.com",
		"projectDescription": "portfolio",
		"selectedPackage":    "Standard",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("inquiry: %d %s", rec.Code, rec.Body.String())
	}
	var inq models.ProjectInquiry
	decode(t, rec, &inq)
	// default workload setting is 2: no surcharge, no waitlist
	if inq.TotalPrice != 900 || inq.DepositAmount != 450 || inq.IsWaitlist {
		t.Fatalf("unexpected pricing: %+v", inq)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/waitlist-count", nil, "")
	var count struct {
		Count int `json:"count"`
	}
	decode(t, rec, &count)
	if count.Count != 0 {
		t.Fatalf("waitlist count = %d, want 0", count.Count)
	}
}

func TestPublicSettingsDefaults(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	rec := doJSON(t, h, http.MethodGet, "/api/settings/public", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: %d", rec.Code)
	}
	var out struct {
		ActiveProjects int    `json:"activeProjects"`
		DeliveryTime   string `json:"deliveryTime"`
		Availability   string `json:"availability"`
	}
	decode(t, rec, &out)
	if out.ActiveProjects != 2 || out.DeliveryTime != "2-3 weeks" || out.Availability != "Available" {
		t.Fatalf("defaults wrong: %+v", out)
	}
}

func TestPublishableKey(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	rec := doJSON(t, h, http.MethodGet, "/api/stripe/publishable-key", nil, "")
	var out struct {
		PublishableKey string `json:"publishableKey"`
	}
	decode(t, rec, &out)
	if out.PublishableKey != "pk_test_abc" {
		t.Fatalf("publishable key = %q", out.PublishableKey)
	}
}

func TestCheckoutFlow(t *testing.T) {
	h, provider := setupApp(t, "hunter2")

	rec := doJSON(t, h, http.MethodPost, "/api/create-checkout-session", map[string]any{
		"depositAmount": 50, "packageName": "Starter",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("below-minimum deposit accepted: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/create-checkout-session", map[string]any{
		"depositAmount":  450,
		"packageName":    "Standard",
		"customerEmail":  "jo@example.com",
		"customerName":   "Jo",
		"projectDetails": map[string]any{"pages": 6},
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		URL string `json:"url"`
	}
	decode(t, rec, &created)
	if created.URL == "" {
		t.Fatal("no redirect url")
	}

	provider.sessions["cs_test_1"].PaymentStatus = "paid"
	for i := 0; i < 2; i++ {
		rec = doJSON(t, h, http.MethodGet, "/api/checkout-session/cs_test_1", nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("get session: %d %s", rec.Code, rec.Body.String())
		}
	}
	var view struct {
		Status      string `json:"status"`
		AmountTotal int    `json:"amountTotal"`
	}
	decode(t, rec, &view)
	if view.Status != "paid" || view.AmountTotal != 450 {
		t.Fatalf("view = %+v", view)
	}

	token := loginAdmin(t, h)
	rec = doJSON(t, h, http.MethodGet, "/api/admin/payments", nil, token)
	var list []models.Payment
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("payments = %d rows, want 1 after double reconcile", len(list))
	}
}

func TestAdminLoginFailures(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	rec := doJSON(t, h, http.MethodPost, "/api/admin/login", map[string]string{"password": "wrong"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", rec.Code)
	}

	unconfigured, _ := setupApp(t, "")
	rec = doJSON(t, unconfigured, http.MethodPost, "/api/admin/login", map[string]string{"password": "x"}, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured portal: %d, want 503", rec.Code)
	}
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	for _, path := range []string{"/api/admin/inquiries", "/api/admin/orders", "/api/admin/payments", "/api/admin/expenses", "/api/admin/settings", "/api/admin/finance"} {
		rec := doJSON(t, h, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: %d, want 401", path, rec.Code)
		}
		rec = doJSON(t, h, http.MethodGet, path, nil, "bogus")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: %d, want 401", path, rec.Code)
		}
	}

	token := loginAdmin(t, h)
	doJSON(t, h, http.MethodPost, "/api/admin/logout", nil, token)
	rec := doJSON(t, h, http.MethodGet, "/api/admin/orders", nil, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("logged-out token accepted: %d", rec.Code)
	}
}

func TestAdminLifecycleFlow(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	token := loginAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/project-inquiry", map[string]any{
		"name":               "Jo",
		"email":              "jo@example.com",
		"projectDescription": "portfolio",
		"selectedPackage":    "Premium",
	}, "")
	var inq models.ProjectInquiry
	decode(t, rec, &inq)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/admin/inquiries/%d/move-to-orders", inq.ID),
		map[string]string{"estimatedDelivery": "3 weeks"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("move-to-orders: %d %s", rec.Code, rec.Body.String())
	}
	var order models.Order
	decode(t, rec, &order)
	if order.Status != "in_progress" || order.RemainingBalance != order.TotalPrice-order.DepositAmount {
		t.Fatalf("order = %+v", order)
	}
	if order.EstimatedDelivery == nil || *order.EstimatedDelivery != "3 weeks" {
		t.Fatalf("estimated delivery not applied: %v", order.EstimatedDelivery)
	}

	// inquiry list must be empty now
	rec = doJSON(t, h, http.MethodGet, "/api/admin/inquiries", nil, token)
	var inquiries []models.ProjectInquiry
	decode(t, rec, &inquiries)
	if len(inquiries) != 0 {
		t.Fatalf("inquiry still present after promotion")
	}

	// complete the order, check completion stamp
	rec = doJSON(t, h, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID),
		map[string]string{"status": "completed"}, token)
	var done models.Order
	decode(t, rec, &done)
	if done.CompletionDate == nil {
		t.Fatal("completion date not stamped")
	}

	// demote back to inquiry
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/move-to-waitlist", order.ID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("move-to-waitlist: %d %s", rec.Code, rec.Body.String())
	}
	var back models.ProjectInquiry
	decode(t, rec, &back)
	if back.Status != "pending" || back.IsWaitlist {
		t.Fatalf("demoted inquiry = %+v", back)
	}

	// missing ids map to 404
	rec = doJSON(t, h, http.MethodPost, "/api/admin/inquiries/999/move-to-orders", nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("promote missing: %d, want 404", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPatch, "/api/admin/orders/999", map[string]string{"status": "pending"}, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("patch missing order: %d, want 404", rec.Code)
	}
}

func TestAdminSettingsAndExpenses(t *testing.T) {
	h, _ := setupApp(t, "hunter2")
	token := loginAdmin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/settings",
		map[string]string{"key": "availability", "value": "Booked"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set setting: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/admin/settings", nil, token)
	var settings map[string]string
	decode(t, rec, &settings)
	if settings["availability"] != "Booked" {
		t.Fatalf("settings map = %v", settings)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/admin/expenses",
		map[string]any{"description": "hosting", "amount": 120}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense: %d %s", rec.Code, rec.Body.String())
	}
	var e models.Expense
	decode(t, rec, &e)

	newAmount := 150
	rec = doJSON(t, h, http.MethodPatch, fmt.Sprintf("/api/admin/expenses/%d", e.ID),
		map[string]int{"amount": newAmount}, token)
	var updated models.Expense
	decode(t, rec, &updated)
	if updated.Amount != newAmount {
		t.Fatalf("expense amount = %d", updated.Amount)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/admin/finance", nil, token)
	var totals struct {
		TotalRevenue  int `json:"totalRevenue"`
		TotalExpenses int `json:"totalExpenses"`
		NetProfit     int `json:"netProfit"`
	}
	decode(t, rec, &totals)
	if totals.TotalExpenses != 150 || totals.NetProfit != -150 {
		t.Fatalf("totals = %+v", totals)
	}

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/admin/expenses/%d", e.ID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete expense: %d", rec.Code)
	}
}
