package main

import (
	"database/sql"
	"fmt"

	"vehicle-finance-workers/internal/common/aws"
	"vehicle-finance-workers/internal/common/cache"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/logger"

	sba "vehicle-finance-workers/internal/workers/communication/send-budget-alert"
	lvl "vehicle-finance-workers/internal/workers/data-access/lookup-vehicle-listing"
	scr "vehicle-finance-workers/internal/workers/data-access/save-calculation-record"
	clb "vehicle-finance-workers/internal/workers/finance/calculate-loan-breakdown"
	ea "vehicle-finance-workers/internal/workers/finance/estimate-affordability"
	mbb "vehicle-finance-workers/internal/workers/finance/match-budget-bracket"
	pvp "vehicle-finance-workers/internal/workers/finance/parse-vehicle-price"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type financeHandler interface {
	Handle(client worker.JobClient, job entities.Job)
	GetTaskType() string
	IsEnabled() bool
}

// namedHandler pairs a handler with the config key of its worker.
type namedHandler struct {
	financeHandler
	name string
}

type dependencies struct {
	cfg    *config.Config
	memo   *cache.Memo
	db     *sql.DB
	es     esapi.Transport
	aws    *aws.Clients
	logger logger.Logger
}

func buildHandlers(d dependencies) ([]namedHandler, error) {
	var handlers []namedHandler
	add := func(name string, h financeHandler, err error) error {
		if err != nil {
			return fmt.Errorf("create %s handler: %w", name, err)
		}
		handlers = append(handlers, namedHandler{financeHandler: h, name: name})
		return nil
	}

	// --- Finance ---
	estimate, err := ea.NewHandler(ea.HandlerOptions{AppConfig: d.cfg, Memo: d.memo, Logger: d.logger})
	if err := add(ea.WorkerName, estimate, err); err != nil {
		return nil, err
	}

	loan, err := clb.NewHandler(clb.HandlerOptions{AppConfig: d.cfg, Memo: d.memo, Logger: d.logger})
	if err := add(clb.WorkerName, loan, err); err != nil {
		return nil, err
	}

	price, err := pvp.NewHandler(pvp.HandlerOptions{AppConfig: d.cfg, Logger: d.logger})
	if err := add(pvp.WorkerName, price, err); err != nil {
		return nil, err
	}

	bracket, err := mbb.NewHandler(mbb.HandlerOptions{AppConfig: d.cfg, Logger: d.logger})
	if err := add(mbb.WorkerName, bracket, err); err != nil {
		return nil, err
	}

	// --- Data access ---
	lookup, err := lvl.NewHandler(lvl.HandlerOptions{AppConfig: d.cfg, Client: d.es, Logger: d.logger})
	if err := add(lvl.WorkerName, lookup, err); err != nil {
		return nil, err
	}

	save, err := scr.NewHandler(scr.HandlerOptions{AppConfig: d.cfg, DB: d.db, Logger: d.logger})
	if err := add(scr.WorkerName, save, err); err != nil {
		return nil, err
	}

	// --- Communication ---
	alertOpts := sba.HandlerOptions{AppConfig: d.cfg, Logger: d.logger}
	if d.aws != nil {
		alertOpts.Publisher = d.aws.SNS
		alertOpts.EmailSender = d.aws.SES
	}
	alert, err := sba.NewHandler(alertOpts)
	if err := add(sba.WorkerName, alert, err); err != nil {
		return nil, err
	}

	return handlers, nil
}
