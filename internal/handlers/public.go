package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
	"github.com/zbpk/Samfolio-Hub/internal/validation"
)

// ActiveProjectsSettingKey holds the operator's current workload; it drives
// pricing surcharges and waitlist mode.
const ActiveProjectsSettingKey = "active_projects"

const defaultActiveProjects = 2

// PublicHandler serves the unauthenticated marketing-site endpoints.
type PublicHandler struct {
	Store     *store.Store
	Lifecycle *services.LifecycleService
}

func NewPublicHandler(s *store.Store, l *services.LifecycleService) *PublicHandler {
	return &PublicHandler{Store: s, Lifecycle: l}
}

func (h *PublicHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/contact", h.contact)
	mux.HandleFunc("POST /api/project-inquiry", h.projectInquiry)
	mux.HandleFunc("GET /api/waitlist-count", h.waitlistCount)
	mux.HandleFunc("GET /api/settings/public", h.publicSettings)
}

func (h *PublicHandler) contact(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("message", input.Message, v)
	if !v.Empty() {
		httpx.JSONMessage(w, http.StatusBadRequest, v.First("name", "email", "message"))
		return
	}
	msg := models.Message{Name: input.Name, Email: input.Email, Message: input.Message}
	if err := h.Store.CreateMessage(&msg); err != nil {
		writeMessageError(w, services.WrapError(services.KindInternal, "failed to save message", err))
		return
	}
	httpx.JSON(w, http.StatusOK, msg)
}

// activeProjects reads the operator's workload setting, defaulting when
// unset or unparseable.
func (h *PublicHandler) activeProjects() int {
	v, ok, err := h.Store.GetSetting(ActiveProjectsSettingKey)
	if err != nil || !ok {
		return defaultActiveProjects
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultActiveProjects
	}
	return n
}

func (h *PublicHandler) projectInquiry(w http.ResponseWriter, r *http.Request) {
	var input services.InquiryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inq, err := h.Lifecycle.SubmitInquiry(input, h.activeProjects())
	if err != nil {
		writeMessageError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inq)
}

func (h *PublicHandler) waitlistCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Store.CountWaitlisted()
	if err != nil {
		writeMessageError(w, services.WrapError(services.KindInternal, "failed to count waitlist", err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *PublicHandler) publicSettings(w http.ResponseWriter, r *http.Request) {
	deliveryTime, ok, err := h.Store.GetSetting("delivery_time")
	if err != nil {
		writeMessageError(w, services.WrapError(services.KindInternal, "failed to read settings", err))
		return
	}
	if !ok {
		deliveryTime = "2-3 weeks"
	}
	availability, ok, err := h.Store.GetSetting("availability")
	if err != nil {
		writeMessageError(w, services.WrapError(services.KindInternal, "failed to read settings", err))
		return
	}
	if !ok {
		availability = "Available"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"activeProjects": h.activeProjects(),
		"deliveryTime":   deliveryTime,
		"availability":   availability,
	})
}
