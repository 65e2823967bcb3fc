package payments

// CheckoutSession is the provider-neutral view of a hosted checkout session.
// AmountTotal is in the provider's minor currency units.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	CustomerEmail string
	AmountTotal   int64
	Metadata      map[string]string
}

// SessionParams describes the single-line-item deposit session to create.
// UnitAmount is in minor currency units.
type SessionParams struct {
	ProductName        string
	ProductDescription string
	UnitAmount         int64
	CustomerEmail      string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// Provider is the external payment-checkout service. Timeouts and retries
// are the provider client's concern; failures surface as plain errors here
// and are classified by the orchestrator.
type Provider interface {
	CreateSession(p SessionParams) (*CheckoutSession, error)
	RetrieveSession(id string) (*CheckoutSession, error)
}
