package payments

import (
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider implements Provider on Stripe's hosted Checkout.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateSession(sp SessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(sp.CustomerEmail),
		SuccessURL:         stripe.String(sp.SuccessURL),
		CancelURL:          stripe.String(sp.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(sp.ProductName),
						Description: stripe.String(sp.ProductDescription),
					},
					UnitAmount: stripe.Int64(sp.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for k, v := range sp.Metadata {
		params.AddMetadata(k, v)
	}
	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func (p *StripeProvider) RetrieveSession(id string) (*CheckoutSession, error) {
	s, err := p.api.CheckoutSessions.Get(id, nil)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}
	return &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		CustomerEmail: email,
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
}
