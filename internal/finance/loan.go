package finance

const (
	// GuidelineShare is the 20% red line for flagging a chosen vehicle.
	// Intentionally looser than RecommendationShare.
	GuidelineShare = 0.20

	LoanTermMonths     = 60
	downPaymentShare   = 0.20
	excellentRate      = 0.045
	standardRate       = 0.065
	insuranceMonthly   = 150.0
	gasEfficient       = 100.0
	gasStandard        = 150.0
	maintenanceMonthly = 75.0
	efficientCityMpg   = 35.0
)

type AncillaryMonthly struct {
	Insurance   float64 `json:"insurance"`
	Gas         float64 `json:"gas"`
	Maintenance float64 `json:"maintenance"`
	Total       float64 `json:"total"`
}

type BudgetImpact struct {
	PercentOfMonthlyIncome float64 `json:"percentOfMonthlyIncome"`
	WithinGuideline        bool    `json:"withinGuideline"`
}

type LoanCostBreakdown struct {
	VehiclePrice          float64          `json:"vehiclePrice"`
	PriceKnown            bool             `json:"priceKnown"`
	DownPayment           float64          `json:"downPayment"`
	LoanAmount            float64          `json:"loanAmount"`
	AnnualInterestRate    float64          `json:"annualInterestRate"` // percent
	TermMonths            int              `json:"termMonths"`
	MonthlyLoanPayment    float64          `json:"monthlyLoanPayment"`
	AncillaryMonthly      AncillaryMonthly `json:"ancillaryMonthly"`
	TotalMonthlyCost      float64          `json:"totalMonthlyCost"`
	TotalInterestOverTerm float64          `json:"totalInterestOverTerm"`
	TotalCostOverTerm     float64          `json:"totalCostOverTerm"`
	BudgetImpact          *BudgetImpact    `json:"budgetImpact,omitempty"`
}

// AnnualRateFor returns the quoted annual rate as a fraction.
func AnnualRateFor(profile FinancialProfile) float64 {
	if profile.IsExcellentCredit() {
		return excellentRate
	}
	return standardRate
}

// ComputeBreakdown prices a loan for vehiclePrice. cityMpg is optional.
// An unknown price (<= 0) still yields a breakdown, with PriceKnown false and
// no budget verdict.
func ComputeBreakdown(vehiclePrice float64, profile FinancialProfile, cityMpg *float64) LoanCostBreakdown {
	price := clampNonNegative(vehiclePrice)
	rate := AnnualRateFor(profile)

	down := price * downPaymentShare
	loan := price - down
	payment := MonthlyPayment(loan, rate, LoanTermMonths)
	ancillary := ancillaryFor(cityMpg)

	totalMonthly := payment + ancillary.Total
	totalInterest := payment*LoanTermMonths - loan

	b := LoanCostBreakdown{
		VehiclePrice:          price,
		PriceKnown:            price > 0,
		DownPayment:           down,
		LoanAmount:            loan,
		AnnualInterestRate:    rate * 100,
		TermMonths:            LoanTermMonths,
		MonthlyLoanPayment:    payment,
		AncillaryMonthly:      ancillary,
		TotalMonthlyCost:      totalMonthly,
		TotalInterestOverTerm: totalInterest,
		TotalCostOverTerm:     price + totalInterest + ancillary.Total*LoanTermMonths,
	}

	if b.PriceKnown {
		if income, ok := profile.Income(); ok {
			b.BudgetImpact = AssessBudget(totalMonthly, income)
		}
	}
	return b
}

// AssessBudget compares a monthly cost against gross monthly income. It
// returns nil when income is absent.
func AssessBudget(totalMonthlyCost, annualIncome float64) *BudgetImpact {
	income := clampNonNegative(annualIncome)
	if income == 0 {
		return nil
	}
	ratio := clampNonNegative(totalMonthlyCost) / (income / 12)
	return &BudgetImpact{
		PercentOfMonthlyIncome: ratio * 100,
		WithinGuideline:        ratio < GuidelineShare,
	}
}

func ancillaryFor(cityMpg *float64) AncillaryMonthly {
	gas := gasStandard
	if cityMpg != nil && *cityMpg > efficientCityMpg {
		gas = gasEfficient
	}
	return AncillaryMonthly{
		Insurance:   insuranceMonthly,
		Gas:         gas,
		Maintenance: maintenanceMonthly,
		Total:       insuranceMonthly + gas + maintenanceMonthly,
	}
}
