package services

import (
	"errors"
	"time"

	"github.com/zbpk/Samfolio-Hub/internal/models"
	"github.com/zbpk/Samfolio-Hub/internal/pricing"
	"github.com/zbpk/Samfolio-Hub/internal/store"
	"github.com/zbpk/Samfolio-Hub/internal/validation"
)

// LifecycleService drives the waitlist -> inquiry -> order -> completed flow.
type LifecycleService struct {
	Store *store.Store
}

func NewLifecycleService(s *store.Store) *LifecycleService { return &LifecycleService{Store: s} }

// InquiryInput is a public project-start submission.
type InquiryInput struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	BusinessName       *string `json:"businessName"`
	ProjectDescription string  `json:"projectDescription"`
	SelectedPackage    string  `json:"selectedPackage"`
	RushOption         bool    `json:"rushOption"`
	Notes              *string `json:"notes"`
}

func (in InquiryInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.Required("projectDescription", in.ProjectDescription, v)
	validation.Required("selectedPackage", in.SelectedPackage, v)
	if in.SelectedPackage != "" && !pricing.ValidPackage(in.SelectedPackage) {
		v["selectedPackage"] = "unknown_package"
	}
	if !v.Empty() {
		return NewError(KindValidation, v.First("name", "email", "projectDescription", "selectedPackage"))
	}
	return nil
}

// SubmitInquiry prices the request against the current workload and persists
// it. At capacity the inquiry is waitlisted: no deposit is quoted, the rush
// option is dropped, and the position is a snapshot of waitlist size + 1
// (never recomputed when earlier entries leave).
func (l *LifecycleService) SubmitInquiry(in InquiryInput, activeCount int) (*models.ProjectInquiry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	quote, err := pricing.Compute(in.SelectedPackage, activeCount, in.RushOption)
	if err != nil {
		return nil, NewError(KindValidation, err.Error())
	}
	inq := models.ProjectInquiry{
		Name:               in.Name,
		Email:              in.Email,
		BusinessName:       in.BusinessName,
		ProjectDescription: in.ProjectDescription,
		SelectedPackage:    in.SelectedPackage,
		RushOption:         in.RushOption,
		Notes:              in.Notes,
		TotalPrice:         quote.TotalPrice,
		DepositAmount:      quote.DepositAmount,
		Status:             "pending",
	}
	if quote.IsWaitlist {
		count, err := l.Store.CountWaitlisted()
		if err != nil {
			return nil, WrapError(KindInternal, "failed to count waitlist", err)
		}
		pos := count + 1
		inq.IsWaitlist = true
		inq.WaitlistPosition = &pos
		inq.RushOption = false
		inq.DepositAmount = 0
	}
	if err := l.Store.CreateInquiry(&inq); err != nil {
		return nil, WrapError(KindInternal, "failed to save inquiry", err)
	}
	return &inq, nil
}

// PromoteToOrder turns an inquiry into an in-progress order and deletes the
// source row. Both steps run in one transaction so readers never observe the
// project in both collections or neither.
func (l *LifecycleService) PromoteToOrder(inquiryID uint, estimatedDelivery *string) (*models.Order, error) {
	var order models.Order
	err := l.Store.Transaction(func(tx *store.Store) error {
		inq, err := tx.GetInquiry(inquiryID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return NewError(KindNotFound, "inquiry not found")
			}
			return WrapError(KindInternal, "failed to load inquiry", err)
		}
		srcID := inq.ID
		order = models.Order{
			InquiryID:          &srcID,
			Name:               inq.Name,
			Email:              inq.Email,
			BusinessName:       inq.BusinessName,
			ProjectDescription: inq.ProjectDescription,
			SelectedPackage:    inq.SelectedPackage,
			RushOption:         inq.RushOption,
			Notes:              inq.Notes,
			TotalPrice:         inq.TotalPrice,
			DepositAmount:      inq.DepositAmount,
			DepositPaid:        false,
			RemainingBalance:   inq.TotalPrice - inq.DepositAmount,
			Status:             "in_progress",
			EstimatedDelivery:  estimatedDelivery,
		}
		if err := tx.CreateOrder(&order); err != nil {
			return WrapError(KindInternal, "failed to create order", err)
		}
		if err := tx.DeleteInquiry(inq.ID); err != nil {
			return WrapError(KindInternal, "failed to remove inquiry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DemoteToWaitlist is the inverse of PromoteToOrder: the order becomes a
// fresh pending inquiry (new id, isWaitlist=false) and the order row is
// deleted, transactionally.
func (l *LifecycleService) DemoteToWaitlist(orderID uint) (*models.ProjectInquiry, error) {
	var inq models.ProjectInquiry
	err := l.Store.Transaction(func(tx *store.Store) error {
		o, err := tx.GetOrder(orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return NewError(KindNotFound, "order not found")
			}
			return WrapError(KindInternal, "failed to load order", err)
		}
		inq = models.ProjectInquiry{
			Name:               o.Name,
			Email:              o.Email,
			BusinessName:       o.BusinessName,
			ProjectDescription: o.ProjectDescription,
			SelectedPackage:    o.SelectedPackage,
			RushOption:         o.RushOption,
			Notes:              o.Notes,
			TotalPrice:         o.TotalPrice,
			DepositAmount:      o.DepositAmount,
			IsWaitlist:         false,
			Status:             "pending",
		}
		if err := tx.CreateInquiry(&inq); err != nil {
			return WrapError(KindInternal, "failed to create inquiry", err)
		}
		if err := tx.DeleteOrder(o.ID); err != nil {
			return WrapError(KindInternal, "failed to remove order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// UpdateInquiry applies an admin patch.
func (l *LifecycleService) UpdateInquiry(id uint, upd store.InquiryUpdate) (*models.ProjectInquiry, error) {
	inq, err := l.Store.UpdateInquiry(id, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(KindNotFound, "inquiry not found")
	}
	if err != nil {
		return nil, WrapError(KindInternal, "failed to update inquiry", err)
	}
	return inq, nil
}

// UpdateOrder applies an admin patch. A transition to "completed" stamps the
// completion date; updatedAt is bumped on every mutation.
func (l *LifecycleService) UpdateOrder(id uint, upd store.OrderUpdate) (*models.Order, error) {
	var extra map[string]any
	if upd.Status != nil && *upd.Status == "completed" {
		extra = map[string]any{"completion_date": time.Now()}
	}
	o, err := l.Store.UpdateOrder(id, upd, extra)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(KindNotFound, "order not found")
	}
	if err != nil {
		return nil, WrapError(KindInternal, "failed to update order", err)
	}
	return o, nil
}

// DeleteInquiry removes an inquiry unconditionally. Missing ids are a no-op;
// confirmation is the caller's concern.
func (l *LifecycleService) DeleteInquiry(id uint) error {
	if err := l.Store.DeleteInquiry(id); err != nil {
		return WrapError(KindInternal, "failed to delete inquiry", err)
	}
	return nil
}

// DeleteOrder removes an order unconditionally.
func (l *LifecycleService) DeleteOrder(id uint) error {
	if err := l.Store.DeleteOrder(id); err != nil {
		return WrapError(KindInternal, "failed to delete order", err)
	}
	return nil
}
