package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zbpk/Samfolio-Hub/internal/auth"
	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

// AdminHandler serves the password-gated operator panel API.
type AdminHandler struct {
	Store     *store.Store
	Lifecycle *services.LifecycleService
	Finance   *services.FinanceService
	Guard     *auth.Guard
}

func NewAdminHandler(s *store.Store, l *services.LifecycleService, f *services.FinanceService, g *auth.Guard) *AdminHandler {
	return &AdminHandler{Store: s, Lifecycle: l, Finance: f, Guard: g}
}

// Register mounts the admin routes. Everything except login passes through
// the session guard.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", h.login)
	mux.HandleFunc("POST /api/admin/logout", h.logout)

	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.Guard.RequireAdmin(fn))
	}
	protected("GET /api/admin/inquiries", h.listInquiries)
	protected("PATCH /api/admin/inquiries/{id}", h.updateInquiry)
	protected("DELETE /api/admin/inquiries/{id}", h.deleteInquiry)
	protected("POST /api/admin/inquiries/{id}/move-to-orders", h.moveToOrders)
	protected("GET /api/admin/orders", h.listOrders)
	protected("PATCH /api/admin/orders/{id}", h.updateOrder)
	protected("DELETE /api/admin/orders/{id}", h.deleteOrder)
	protected("POST /api/admin/orders/{id}/move-to-waitlist", h.moveToWaitlist)
	protected("GET /api/admin/payments", h.listPayments)
	protected("GET /api/admin/settings", h.listSettings)
	protected("POST /api/admin/settings", h.setSetting)
	protected("GET /api/admin/expenses", h.listExpenses)
	protected("POST /api/admin/expenses", h.createExpense)
	protected("PATCH /api/admin/expenses/{id}", h.updateExpense)
	protected("DELETE /api/admin/expenses/{id}", h.deleteExpense)
	protected("GET /api/admin/finance", h.financeTotals)
}

// --- Session ---

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := h.Guard.Login(input.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.Guard.Logout(auth.BearerToken(r))
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Inquiries ---

func (h *AdminHandler) listInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.Store.ListInquiries()
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to list inquiries", err))
		return
	}
	httpx.JSON(w, http.StatusOK, inquiries)
}

func (h *AdminHandler) updateInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var upd store.InquiryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inq, err := h.Lifecycle.UpdateInquiry(id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inq)
}

func (h *AdminHandler) deleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Lifecycle.DeleteInquiry(id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) moveToOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var input struct {
		EstimatedDelivery *string `json:"estimatedDelivery"`
	}
	if r.Body != nil {
		// body is optional
		_ = json.NewDecoder(r.Body).Decode(&input)
	}
	order, err := h.Lifecycle.PromoteToOrder(id, input.EstimatedDelivery)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// --- Orders ---

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrders()
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to list orders", err))
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var upd store.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	order, err := h.Lifecycle.UpdateOrder(id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *AdminHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Lifecycle.DeleteOrder(id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) moveToWaitlist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	inq, err := h.Lifecycle.DemoteToWaitlist(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inq)
}

// --- Payments ---

func (h *AdminHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments()
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to list payments", err))
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

// --- Settings ---

func (h *AdminHandler) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.ListSettings()
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to list settings", err))
		return
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AdminHandler) setSetting(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Key == "" {
		httpx.JSONError(w, http.StatusBadRequest, "key is required")
		return
	}
	setting, err := h.Store.SetSetting(input.Key, input.Value)
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to save setting", err))
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}

// --- Expenses ---

func (h *AdminHandler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses()
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to list expenses", err))
		return
	}
	httpx.JSON(w, http.StatusOK, expenses)
}

func (h *AdminHandler) createExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if e.Description == "" || e.Amount <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "description and a positive amount are required")
		return
	}
	e.ID = 0 // never trust a client-supplied id
	if err := h.Store.CreateExpense(&e); err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to save expense", err))
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *AdminHandler) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var upd store.ExpenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	e, err := h.Store.UpdateExpense(id, upd)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to update expense", err))
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *AdminHandler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Store.DeleteExpense(id); err != nil {
		writeError(w, services.WrapError(services.KindInternal, "failed to delete expense", err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Finance ---

func (h *AdminHandler) financeTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Finance.ComputeTotals()
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}
