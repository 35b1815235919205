package finance

import "math"

// MonthlyPayment returns the level payment that retires principal over months
// at the given annual rate (fraction, e.g. 0.045).
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 || !(principal > 0) {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / float64(months)
	}
	return principal * annuityFactor(r, months)
}

// MaxPrincipal is the inverse of MonthlyPayment: the largest principal a
// payment can service over months at annualRate.
func MaxPrincipal(payment, annualRate float64, months int) float64 {
	if months <= 0 || !(payment > 0) {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return payment * float64(months)
	}
	return payment / annuityFactor(r, months)
}

// annuityFactor is r(1+r)^n / ((1+r)^n - 1), the payment per unit of
// principal. Callers handle r == 0 before reaching here.
func annuityFactor(r float64, months int) float64 {
	growth := math.Pow(1+r, float64(months))
	return r * growth / (growth - 1)
}
