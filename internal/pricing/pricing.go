// Package pricing computes quotes for project inquiries. Everything here is
// a pure function of its inputs so it can be tested directly against the
// published price table.
package pricing

import "fmt"

// Base prices per package, in whole currency units.
const (
	StarterPrice  = 600
	StandardPrice = 900
	PremiumPrice  = 1350
)

// RushFee is the flat rush-delivery fee. The marketing pages advertise a
// $300-$500 range but the engine has always charged a flat 400; keep the
// literal value until product decides otherwise.
const RushFee = 400

// WaitlistThreshold is the active-project count at which new inquiries are
// queued instead of quoted.
const WaitlistThreshold = 5

// Packages lists the valid package names.
var Packages = []string{"Starter", "Standard", "Premium"}

// Quote is the result of pricing an inquiry.
type Quote struct {
	BasePrice        int
	Surcharge        int
	RushFee          int
	TotalPrice       int
	DepositAmount    int
	RemainingBalance int
	DeliveryEstimate string
	IsWaitlist       bool
}

// BasePrice returns the base price for a package name.
func BasePrice(pkg string) (int, error) {
	switch pkg {
	case "Starter":
		return StarterPrice, nil
	case "Standard":
		return StandardPrice, nil
	case "Premium":
		return PremiumPrice, nil
	}
	return 0, fmt.Errorf("unknown package %q", pkg)
}

// ValidPackage reports whether pkg is a known package name.
func ValidPackage(pkg string) bool {
	_, err := BasePrice(pkg)
	return err == nil
}

// Surcharge returns the workload surcharge for the given active-project
// count. Tiers at 3 and 5 are intentionally different from the delivery
// estimate tiers below.
func Surcharge(activeCount int) int {
	if activeCount >= 5 {
		return 300
	}
	if activeCount >= 3 {
		return 150
	}
	return 0
}

// DeliveryEstimate returns the advertised delivery window for the given
// active-project count.
func DeliveryEstimate(activeCount int) string {
	switch {
	case activeCount <= 0:
		return "~1 week"
	case activeCount <= 2:
		return "2-3 weeks"
	default:
		return "4-6 weeks"
	}
}

// IsWaitlistMode reports whether new inquiries go on the waitlist rather
// than being quoted.
func IsWaitlistMode(activeCount int) bool {
	return activeCount >= WaitlistThreshold
}

// Compute prices an inquiry. In waitlist mode no deposit is quoted and the
// rush fee is never applied, regardless of the rush flag.
func Compute(pkg string, activeCount int, rush bool) (Quote, error) {
	base, err := BasePrice(pkg)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{
		BasePrice:        base,
		Surcharge:        Surcharge(activeCount),
		DeliveryEstimate: DeliveryEstimate(activeCount),
		IsWaitlist:       IsWaitlistMode(activeCount),
	}
	if rush && !q.IsWaitlist {
		q.RushFee = RushFee
	}
	q.TotalPrice = q.BasePrice + q.Surcharge + q.RushFee
	// Round-half-up on the smallest unit.
	q.DepositAmount = (q.TotalPrice + 1) / 2
	q.RemainingBalance = q.TotalPrice - q.DepositAmount
	return q, nil
}
