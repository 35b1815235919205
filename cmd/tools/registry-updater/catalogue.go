package main

import (
	"vehicle-finance-workers/internal/common/validation"

	sba "vehicle-finance-workers/internal/workers/communication/send-budget-alert"
	lvl "vehicle-finance-workers/internal/workers/data-access/lookup-vehicle-listing"
	scr "vehicle-finance-workers/internal/workers/data-access/save-calculation-record"
	clb "vehicle-finance-workers/internal/workers/finance/calculate-loan-breakdown"
	ea "vehicle-finance-workers/internal/workers/finance/estimate-affordability"
	mbb "vehicle-finance-workers/internal/workers/finance/match-budget-bracket"
	pvp "vehicle-finance-workers/internal/workers/finance/parse-vehicle-price"
)

var workerCatalogue = []struct {
	taskType string
	schema   func() validation.JSONSchema
}{
	{ea.TaskType, ea.GetInputSchema},
	{clb.TaskType, clb.GetInputSchema},
	{pvp.TaskType, pvp.GetInputSchema},
	{mbb.TaskType, mbb.GetInputSchema},
	{lvl.TaskType, lvl.GetInputSchema},
	{scr.TaskType, scr.GetInputSchema},
	{sba.TaskType, sba.GetInputSchema},
}

func workerTaskTypes() []string {
	types := make([]string, 0, len(workerCatalogue))
	for _, w := range workerCatalogue {
		types = append(types, w.taskType)
	}
	return types
}
