package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// RecommendationShare is the 10% rule: total monthly vehicle spend used
	// to size a recommended price. Kept separate from GuidelineShare.
	RecommendationShare = 0.10

	insuranceCeiling   = 200.0
	insuranceShare     = 0.30
	gasCeiling         = 150.0
	gasShare           = 0.25
	maintenanceCeiling = 100.0
	maintenanceShare   = 0.15

	// Generic planning assumption, independent of the borrower's credit tier.
	planningAnnualRate   = 0.06
	planningTermMonths   = 48
	plannedDownPayment   = 0.20
	tierRoundingExponent = -3 // nearest 1,000

	conservativeShare = 0.8
	moderateShare     = 0.9
)

// DefaultNetIncomeFactor treats gross monthly income as net.
const DefaultNetIncomeFactor = 1.0

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Width() float64 {
	return math.Max(0, r.Max-r.Min)
}

// PriceTiers are ascending, overlapping confidence bands.
type PriceTiers struct {
	Conservative PriceRange `json:"conservative"`
	Moderate     PriceRange `json:"moderate"`
	Optimistic   PriceRange `json:"optimistic"`
}

type AncillaryCosts struct {
	Insurance   float64 `json:"insurance"`
	Gas         float64 `json:"gas"`
	Maintenance float64 `json:"maintenance"`
	Total       float64 `json:"total"`
}

type AffordabilityDerived struct {
	GrossMonthlyIncome float64 `json:"grossMonthlyIncome"`
	NetMonthlyIncome   float64 `json:"netMonthlyIncome"`
	MaxCarPrice        float64 `json:"maxCarPrice"`
	ImpliedDownPayment float64 `json:"impliedDownPayment"`
	ImpliedLoanAmount  float64 `json:"impliedLoanAmount"`
}

type AffordabilityResult struct {
	MaxMonthlyCarExpense  float64              `json:"maxMonthlyCarExpense"`
	AncillaryCosts        AncillaryCosts       `json:"ancillaryCosts"`
	MaxMonthlyLoanPayment float64              `json:"maxMonthlyLoanPayment"`
	PriceTiers            PriceTiers           `json:"priceTiers"`
	Derived               AffordabilityDerived `json:"derived"`
}

// Estimator derives a recommended price band from a financial profile.
type Estimator struct {
	// NetIncomeFactor scales gross monthly income into net. Values outside
	// (0, 1] fall back to DefaultNetIncomeFactor.
	NetIncomeFactor float64
}

var defaultEstimator = Estimator{NetIncomeFactor: DefaultNetIncomeFactor}

// Estimate runs the default estimator. The boolean is false when the profile
// carries no usable income; that is an expected outcome, not an error.
func Estimate(profile FinancialProfile) (AffordabilityResult, bool) {
	return defaultEstimator.Estimate(profile)
}

func (e Estimator) Estimate(profile FinancialProfile) (AffordabilityResult, bool) {
	income, ok := profile.Income()
	if !ok {
		return AffordabilityResult{}, false
	}

	gross := income / 12
	net := gross * e.netFactor()
	maxExpense := net * RecommendationShare

	ancillary := estimateAncillary(maxExpense)
	maxLoanPayment := math.Max(0, maxExpense-ancillary.Total)

	maxLoan := MaxPrincipal(maxLoanPayment, planningAnnualRate, planningTermMonths)
	maxCarPrice := maxLoan / (1 - plannedDownPayment)

	return AffordabilityResult{
		MaxMonthlyCarExpense:  maxExpense,
		AncillaryCosts:        ancillary,
		MaxMonthlyLoanPayment: maxLoanPayment,
		PriceTiers:            buildTiers(maxCarPrice),
		Derived: AffordabilityDerived{
			GrossMonthlyIncome: gross,
			NetMonthlyIncome:   net,
			MaxCarPrice:        maxCarPrice,
			ImpliedDownPayment: maxCarPrice * plannedDownPayment,
			ImpliedLoanAmount:  maxLoan,
		},
	}, true
}

func (e Estimator) netFactor() float64 {
	if !(e.NetIncomeFactor > 0) || e.NetIncomeFactor > 1 {
		return DefaultNetIncomeFactor
	}
	return e.NetIncomeFactor
}

func estimateAncillary(maxExpense float64) AncillaryCosts {
	insurance := math.Min(insuranceCeiling, insuranceShare*maxExpense)
	gas := math.Min(gasCeiling, gasShare*maxExpense)
	maintenance := math.Min(maintenanceCeiling, maintenanceShare*maxExpense)
	return AncillaryCosts{
		Insurance:   insurance,
		Gas:         gas,
		Maintenance: maintenance,
		Total:       insurance + gas + maintenance,
	}
}

func buildTiers(maxCarPrice float64) PriceTiers {
	conservativeMax := conservativeShare * maxCarPrice
	moderateMax := moderateShare * maxCarPrice

	return PriceTiers{
		Conservative: PriceRange{
			Min: roundToThousand(0.6 * conservativeMax),
			Max: roundToThousand(conservativeMax),
		},
		Moderate: PriceRange{
			Min: roundToThousand(0.8 * conservativeMax),
			Max: roundToThousand(moderateMax),
		},
		Optimistic: PriceRange{
			Min: roundToThousand(0.8 * moderateMax),
			Max: roundToThousand(maxCarPrice),
		},
	}
}

func roundToThousand(v float64) float64 {
	return decimal.NewFromFloat(v).Round(tierRoundingExponent).InexactFloat64()
}
