package sendbudgetalert

import (
	"fmt"

	"vehicle-finance-workers/internal/finance"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const alertSubject = "This vehicle is above your budget guideline"

var printer = message.NewPrinter(language.AmericanEnglish)

func dollars(v float64) string {
	return printer.Sprintf("$%d", decimal.NewFromFloat(v).Round(0).IntPart())
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func vehicleLabel(input *Input) string {
	switch {
	case input.VehicleName != "":
		return input.VehicleName
	case input.VehicleID != "":
		return input.VehicleID
	}
	return "this vehicle"
}

func alertText(input *Input, impact *finance.BudgetImpact) string {
	b := input.LoanBreakdown
	return fmt.Sprintf(
		"The estimated monthly cost of %s is %s, %s of your monthly income. "+
			"We recommend keeping total vehicle costs under %s of income.\n\n"+
			"Loan payment: %s/month over %d months at %s APR\n"+
			"Insurance, gas and maintenance: %s/month\n"+
			"Total cost over the loan term: %s",
		vehicleLabel(input),
		dollars(b.TotalMonthlyCost),
		percent(impact.PercentOfMonthlyIncome),
		percent(finance.GuidelineShare*100),
		dollars(b.MonthlyLoanPayment),
		b.TermMonths,
		percent(b.AnnualInterestRate),
		dollars(b.AncillaryMonthly.Total),
		dollars(b.TotalCostOverTerm),
	)
}
