package models

import "time"

// Message is a contact-form submission. Write-only log: created by the
// public contact endpoint and never read back or updated.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectInquiry is a prospective project request, possibly waitlisted.
// Promoting it to an Order deletes the inquiry row.
type ProjectInquiry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	Email              string    `gorm:"not null" json:"email"`
	BusinessName       *string   `json:"businessName"`
	ProjectDescription string    `gorm:"not null" json:"projectDescription"`
	SelectedPackage    string    `gorm:"not null" json:"selectedPackage"`
	RushOption         bool      `gorm:"default:false" json:"rushOption"`
	Notes              *string   `json:"notes"`
	TotalPrice         int       `gorm:"not null" json:"totalPrice"`
	DepositAmount      int       `gorm:"not null" json:"depositAmount"`
	IsWaitlist         bool      `gorm:"default:false" json:"isWaitlist"`
	WaitlistPosition   *int      `json:"waitlistPosition"`
	Status             string    `gorm:"default:'pending'" json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Order is a committed project, created by promoting an inquiry or directly.
// RemainingBalance is computed at creation as TotalPrice - DepositAmount.
type Order struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	InquiryID          *uint      `json:"inquiryId"`
	Name               string     `gorm:"not null" json:"name"`
	Email              string     `gorm:"not null" json:"email"`
	BusinessName       *string    `json:"businessName"`
	ProjectDescription string     `gorm:"not null" json:"projectDescription"`
	SelectedPackage    string     `gorm:"not null" json:"selectedPackage"`
	RushOption         bool       `gorm:"default:false" json:"rushOption"`
	Notes              *string    `json:"notes"`
	TotalPrice         int        `gorm:"not null" json:"totalPrice"`
	DepositAmount      int        `gorm:"not null" json:"depositAmount"`
	DepositPaid        bool       `gorm:"default:false" json:"depositPaid"`
	RemainingBalance   int        `json:"remainingBalance"`
	Status             string     `gorm:"default:'in_progress'" json:"status"`
	EstimatedDelivery  *string    `json:"estimatedDelivery"`
	CompletionDate     *time.Time `json:"completionDate"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Payment is recorded at most once per checkout session, when the session
// is first observed as paid. Amount is in whole currency units.
type Payment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StripeSessionID string    `gorm:"not null;uniqueIndex" json:"stripeSessionId"`
	CustomerName    string    `gorm:"not null" json:"customerName"`
	CustomerEmail   string    `gorm:"not null" json:"customerEmail"`
	PackageName     string    `gorm:"not null" json:"packageName"`
	Amount          int       `gorm:"not null" json:"amount"`
	Status          string    `gorm:"not null" json:"status"`
	ProjectDetails  *string   `json:"projectDetails"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Expense is a finance-tracking entry managed by the admin.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"not null" json:"description"`
	Amount      int       `gorm:"not null" json:"amount"`
	Category    string    `gorm:"default:'general'" json:"category"`
	Notes       *string   `json:"notes"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdminSetting is a key-value configuration row with upsert-by-key semantics.
type AdminSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
