package sendbudgetalert

import "vehicle-finance-workers/internal/finance"

const (
	ChannelSNS   = "sns"
	ChannelEmail = "email"

	ReasonWithinGuideline = "within_guideline"
	ReasonNoVerdict       = "no_budget_verdict"
	ReasonNoChannel       = "no_channel_configured"
)

type Input struct {
	SessionID     string                    `json:"sessionId"`
	VehicleID     string                    `json:"vehicleId,omitempty"`
	VehicleName   string                    `json:"vehicleName,omitempty"`
	Email         string                    `json:"email,omitempty"`
	LoanBreakdown finance.LoanCostBreakdown `json:"loanBreakdown"`
}

type Output struct {
	AlertSent bool     `json:"alertSent"`
	Channels  []string `json:"channels"`
	MessageID string   `json:"messageId,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}
