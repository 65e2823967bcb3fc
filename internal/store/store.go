// Package store is the persistence layer. It owns all gorm access; every
// mutation is a single atomic operation, and the two-step promote/demote
// sequences run inside Transaction.
package store

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zbpk/Samfolio-Hub/internal/models"
)

// ErrNotFound is returned by update operations targeting an absent record.
// Deletes are idempotent and never return it.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Transaction runs fn against a store bound to a single transaction.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique")
}

// --- Messages ---

func (s *Store) CreateMessage(m *models.Message) error {
	return s.DB.Create(m).Error
}

// --- Project inquiries ---

func (s *Store) CreateInquiry(inq *models.ProjectInquiry) error {
	return s.DB.Create(inq).Error
}

func (s *Store) ListInquiries() ([]models.ProjectInquiry, error) {
	var out []models.ProjectInquiry
	err := s.DB.Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *Store) GetInquiry(id uint) (*models.ProjectInquiry, error) {
	var inq models.ProjectInquiry
	if err := s.DB.First(&inq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inq, nil
}

// InquiryUpdate is the allow-listed PATCH payload for inquiries. Server-managed
// fields (id, createdAt) are deliberately absent.
type InquiryUpdate struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	BusinessName       *string `json:"businessName"`
	ProjectDescription *string `json:"projectDescription"`
	SelectedPackage    *string `json:"selectedPackage"`
	RushOption         *bool   `json:"rushOption"`
	Notes              *string `json:"notes"`
	TotalPrice         *int    `json:"totalPrice"`
	DepositAmount      *int    `json:"depositAmount"`
	IsWaitlist         *bool   `json:"isWaitlist"`
	WaitlistPosition   *int    `json:"waitlistPosition"`
	Status             *string `json:"status"`
}

func (u InquiryUpdate) changes() map[string]any {
	m := map[string]any{}
	if u.Name != nil {
		m["name"] = *u.Name
	}
	if u.Email != nil {
		m["email"] = *u.Email
	}
	if u.BusinessName != nil {
		m["business_name"] = *u.BusinessName
	}
	if u.ProjectDescription != nil {
		m["project_description"] = *u.ProjectDescription
	}
	if u.SelectedPackage != nil {
		m["selected_package"] = *u.SelectedPackage
	}
	if u.RushOption != nil {
		m["rush_option"] = *u.RushOption
	}
	if u.Notes != nil {
		m["notes"] = *u.Notes
	}
	if u.TotalPrice != nil {
		m["total_price"] = *u.TotalPrice
	}
	if u.DepositAmount != nil {
		m["deposit_amount"] = *u.DepositAmount
	}
	if u.IsWaitlist != nil {
		m["is_waitlist"] = *u.IsWaitlist
	}
	if u.WaitlistPosition != nil {
		m["waitlist_position"] = *u.WaitlistPosition
	}
	if u.Status != nil {
		m["status"] = *u.Status
	}
	return m
}

func (s *Store) UpdateInquiry(id uint, upd InquiryUpdate) (*models.ProjectInquiry, error) {
	inq, err := s.GetInquiry(id)
	if err != nil {
		return nil, err
	}
	if ch := upd.changes(); len(ch) > 0 {
		if err := s.DB.Model(inq).Updates(ch).Error; err != nil {
			return nil, err
		}
	}
	return s.GetInquiry(id)
}

func (s *Store) DeleteInquiry(id uint) error {
	return s.DB.Delete(&models.ProjectInquiry{}, id).Error
}

// CountWaitlisted counts inquiries currently flagged as waitlisted.
func (s *Store) CountWaitlisted() (int, error) {
	var n int64
	err := s.DB.Model(&models.ProjectInquiry{}).Where("is_waitlist = ?", true).Count(&n).Error
	return int(n), err
}

// --- Orders ---

func (s *Store) CreateOrder(o *models.Order) error {
	return s.DB.Create(o).Error
}

func (s *Store) ListOrders() ([]models.Order, error) {
	var out []models.Order
	err := s.DB.Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *Store) GetOrder(id uint) (*models.Order, error) {
	var o models.Order
	if err := s.DB.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// OrderUpdate is the allow-listed PATCH payload for orders. RemainingBalance
// and CompletionDate are server-managed and not client-writable.
type OrderUpdate struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	BusinessName       *string `json:"businessName"`
	ProjectDescription *string `json:"projectDescription"`
	SelectedPackage    *string `json:"selectedPackage"`
	RushOption         *bool   `json:"rushOption"`
	Notes              *string `json:"notes"`
	DepositPaid        *bool   `json:"depositPaid"`
	Status             *string `json:"status"`
	EstimatedDelivery  *string `json:"estimatedDelivery"`
}

func (u OrderUpdate) changes() map[string]any {
	m := map[string]any{}
	if u.Name != nil {
		m["name"] = *u.Name
	}
	if u.Email != nil {
		m["email"] = *u.Email
	}
	if u.BusinessName != nil {
		m["business_name"] = *u.BusinessName
	}
	if u.ProjectDescription != nil {
		m["project_description"] = *u.ProjectDescription
	}
	if u.SelectedPackage != nil {
		m["selected_package"] = *u.SelectedPackage
	}
	if u.RushOption != nil {
		m["rush_option"] = *u.RushOption
	}
	if u.Notes != nil {
		m["notes"] = *u.Notes
	}
	if u.DepositPaid != nil {
		m["deposit_paid"] = *u.DepositPaid
	}
	if u.Status != nil {
		m["status"] = *u.Status
	}
	if u.EstimatedDelivery != nil {
		m["estimated_delivery"] = *u.EstimatedDelivery
	}
	return m
}

// UpdateOrder applies upd and optional extra column changes (used by the
// lifecycle service to stamp completion dates). UpdatedAt is always bumped.
func (s *Store) UpdateOrder(id uint, upd OrderUpdate, extra map[string]any) (*models.Order, error) {
	o, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	ch := upd.changes()
	for k, v := range extra {
		ch[k] = v
	}
	ch["updated_at"] = time.Now()
	if err := s.DB.Model(o).Updates(ch).Error; err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

func (s *Store) DeleteOrder(id uint) error {
	return s.DB.Delete(&models.Order{}, id).Error
}

// --- Payments ---

// CreatePayment inserts a payment; ErrDuplicate when the session id is
// already recorded.
func (s *Store) CreatePayment(p *models.Payment) error {
	if err := s.DB.Create(p).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) ListPayments() ([]models.Payment, error) {
	var out []models.Payment
	err := s.DB.Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *Store) FindPaymentBySessionID(sessionID string) (*models.Payment, error) {
	var p models.Payment
	err := s.DB.Where("stripe_session_id = ?", sessionID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdatePaymentStatus(sessionID, status string) (*models.Payment, error) {
	p, err := s.FindPaymentBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(p).Update("status", status).Error; err != nil {
		return nil, err
	}
	p.Status = status
	return p, nil
}

// --- Settings ---

// GetSetting returns the value for key, or ok=false when unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var st models.AdminSetting
	err := s.DB.Where("key = ?", key).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return st.Value, true, nil
}

// SetSetting upserts a setting by key.
func (s *Store) SetSetting(key, value string) (*models.AdminSetting, error) {
	var st models.AdminSetting
	err := s.DB.Where("key = ?", key).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = models.AdminSetting{Key: key, Value: value}
		if cerr := s.DB.Create(&st).Error; cerr != nil {
			return nil, cerr
		}
		return &st, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(&st).Updates(map[string]any{"value": value, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}
	st.Value = value
	return &st, nil
}

func (s *Store) ListSettings() ([]models.AdminSetting, error) {
	var out []models.AdminSetting
	err := s.DB.Find(&out).Error
	return out, err
}

// --- Expenses ---

func (s *Store) CreateExpense(e *models.Expense) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if e.Category == "" {
		e.Category = "general"
	}
	return s.DB.Create(e).Error
}

func (s *Store) ListExpenses() ([]models.Expense, error) {
	var out []models.Expense
	err := s.DB.Order("date desc").Find(&out).Error
	return out, err
}

// ExpenseUpdate is the allow-listed PATCH payload for expenses.
type ExpenseUpdate struct {
	Description *string    `json:"description"`
	Amount      *int       `json:"amount"`
	Category    *string    `json:"category"`
	Notes       *string    `json:"notes"`
	Date        *time.Time `json:"date"`
}

func (u ExpenseUpdate) changes() map[string]any {
	m := map[string]any{}
	if u.Description != nil {
		m["description"] = *u.Description
	}
	if u.Amount != nil {
		m["amount"] = *u.Amount
	}
	if u.Category != nil {
		m["category"] = *u.Category
	}
	if u.Notes != nil {
		m["notes"] = *u.Notes
	}
	if u.Date != nil {
		m["date"] = *u.Date
	}
	return m
}

func (s *Store) UpdateExpense(id uint, upd ExpenseUpdate) (*models.Expense, error) {
	var e models.Expense
	if err := s.DB.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ch := upd.changes(); len(ch) > 0 {
		if err := s.DB.Model(&e).Updates(ch).Error; err != nil {
			return nil, err
		}
		if err := s.DB.First(&e, id).Error; err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (s *Store) DeleteExpense(id uint) error {
	return s.DB.Delete(&models.Expense{}, id).Error
}
