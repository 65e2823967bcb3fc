package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/payments"
)

// CheckoutHandler serves the deposit-payment endpoints.
type CheckoutHandler struct {
	Service        *payments.CheckoutService
	PublishableKey string
}

func NewCheckoutHandler(svc *payments.CheckoutService, publishableKey string) *CheckoutHandler {
	return &CheckoutHandler{Service: svc, PublishableKey: publishableKey}
}

func (h *CheckoutHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stripe/publishable-key", h.publishableKey)
	mux.HandleFunc("POST /api/create-checkout-session", h.createSession)
	mux.HandleFunc("GET /api/checkout-session/{id}", h.getSession)
}

func (h *CheckoutHandler) publishableKey(w http.ResponseWriter, r *http.Request) {
	if h.PublishableKey == "" {
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to get Stripe configuration")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"publishableKey": h.PublishableKey})
}

func (h *CheckoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var input payments.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	url, err := h.Service.CreateDepositSession(input)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *CheckoutHandler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.ReconcileSession(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}
