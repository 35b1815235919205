package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vehicle-finance-workers/internal/common/errors"
	"vehicle-finance-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeJobVariables validates the job variables against schema and decodes
// them into dst. Failures are returned as *errors.StandardError.
func DecodeJobVariables(job entities.Job, schema validation.JSONSchema, dst interface{}) error {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal([]byte(job.GetVariables()), dst); err != nil {
		return errors.NewInputParsingFailedError(err)
	}
	return nil
}

// CompleteJob sends the output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
