// Package payments creates deposit checkout sessions with the external
// provider and reconciles paid sessions into payment records.
package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

// MinDeposit is the smallest chargeable deposit.
const MinDeposit = 100

// metadataDetailsLimit caps the serialized project details attached to a
// session; Stripe metadata values max out at 500 characters.
const metadataDetailsLimit = 500

// CheckoutService orchestrates deposit collection.
type CheckoutService struct {
	Store    *store.Store
	Provider Provider
	BaseURL  string
}

func NewCheckoutService(s *store.Store, p Provider, baseURL string) *CheckoutService {
	return &CheckoutService{Store: s, Provider: p, BaseURL: baseURL}
}

// CheckoutInput is the public create-checkout-session request body.
type CheckoutInput struct {
	DepositAmount  int    `json:"depositAmount"`
	PackageName    string `json:"packageName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerName   string `json:"customerName"`
	ProjectDetails any    `json:"projectDetails"`
}

// SessionView is the normalized reconciliation result. AmountTotal is in
// whole currency units.
type SessionView struct {
	Status        string            `json:"status"`
	CustomerEmail string            `json:"customerEmail"`
	AmountTotal   int               `json:"amountTotal"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateDepositSession opens a hosted checkout session for a 50% deposit and
// returns the provider's redirect URL.
func (c *CheckoutService) CreateDepositSession(in CheckoutInput) (string, error) {
	if in.DepositAmount < MinDeposit {
		return "", services.NewError(services.KindValidation, "Invalid deposit amount")
	}
	details := ""
	if in.ProjectDetails != nil {
		if b, err := json.Marshal(in.ProjectDetails); err == nil {
			details = string(b)
			if len(details) > metadataDetailsLimit {
				details = details[:metadataDetailsLimit]
			}
		}
	}
	session, err := c.Provider.CreateSession(SessionParams{
		ProductName:        fmt.Sprintf("%s - 50%% Deposit", in.PackageName),
		ProductDescription: fmt.Sprintf("Project deposit for %s package", in.PackageName),
		UnitAmount:         int64(in.DepositAmount) * 100,
		CustomerEmail:      in.CustomerEmail,
		SuccessURL:         c.BaseURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          c.BaseURL + "/start-project",
		Metadata: map[string]string{
			"customerName":   in.CustomerName,
			"customerEmail":  in.CustomerEmail,
			"packageName":    in.PackageName,
			"depositAmount":  strconv.Itoa(in.DepositAmount),
			"projectDetails": details,
		},
	})
	if err != nil {
		return "", services.WrapError(services.KindPaymentProvider, err.Error(), err)
	}
	return session.URL, nil
}

// ReconcileSession fetches a session from the provider and, when it is paid
// and not yet recorded, saves a payment with the amount normalized to whole
// currency units. Safe under concurrent duplicate calls: the unique session
// id constraint turns a racing insert into "already reconciled".
func (c *CheckoutService) ReconcileSession(sessionID string) (*SessionView, error) {
	session, err := c.Provider.RetrieveSession(sessionID)
	if err != nil {
		return nil, services.WrapError(services.KindPaymentProvider, "Failed to retrieve session", err)
	}
	if session.PaymentStatus == "paid" {
		if _, err := c.Store.FindPaymentBySessionID(sessionID); errors.Is(err, store.ErrNotFound) {
			details := session.Metadata["projectDetails"]
			p := models.Payment{
				StripeSessionID: sessionID,
				CustomerName:    session.Metadata["customerName"],
				CustomerEmail:   session.CustomerEmail,
				PackageName:     session.Metadata["packageName"],
				Amount:          int((session.AmountTotal + 50) / 100),
				Status:          "paid",
			}
			if details != "" {
				p.ProjectDetails = &details
			}
			if cerr := c.Store.CreatePayment(&p); cerr != nil && !errors.Is(cerr, store.ErrDuplicate) {
				return nil, services.WrapError(services.KindInternal, "failed to record payment", cerr)
			}
		} else if err != nil {
			return nil, services.WrapError(services.KindInternal, "failed to look up payment", err)
		}
	}
	return &SessionView{
		Status:        session.PaymentStatus,
		CustomerEmail: session.CustomerEmail,
		AmountTotal:   int((session.AmountTotal + 50) / 100),
		Metadata:      session.Metadata,
	}, nil
}
