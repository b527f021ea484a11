package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/script/v1"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Ensure ScriptClient implements the interface.
var _ driven.ScriptRunner = (*ScriptClient)(nil)

// ScriptClient runs Apps Script functions through the Execution API.
type ScriptClient struct {
	svc     *script.Service
	limiter *RateLimiter
}

// NewScriptClient wraps svc. limiter may be nil.
func NewScriptClient(svc *script.Service, limiter *RateLimiter) *ScriptClient {
	return &ScriptClient{svc: svc, limiter: limiter}
}

// Name returns domain.ServiceScript.
func (c *ScriptClient) Name() domain.ServiceName { return domain.ServiceScript }

// Version returns the Execution API version.
func (c *ScriptClient) Version() string { return "v1" }

// API returns the underlying Apps Script service.
func (c *ScriptClient) API() *script.Service { return c.svc }

// Run posts req to scripts/{scriptID}:run and decodes the operation.
func (c *ScriptClient) Run(
	ctx context.Context,
	scriptID string,
	req domain.ExecutionRequest,
) (*domain.ExecutionResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ExecutionError{Kind: domain.ErrorKindTransport, Function: req.Function, Err: err}
	}

	params := req.Parameters
	if params == nil {
		params = []any{}
	}

	op, err := c.svc.Scripts.Run(scriptID, &script.ExecutionRequest{
		Function:        req.Function,
		Parameters:      params,
		ForceSendFields: []string{"Parameters"},
	}).Context(ctx).Do()
	if err != nil {
		return nil, c.transportError(req.Function, err)
	}

	if op.Error != nil {
		return nil, scriptError(req.Function, op.Error)
	}

	result := &domain.ExecutionResult{Done: op.Done}
	if len(op.Response) > 0 {
		var resp script.ExecutionResponse
		if err := json.Unmarshal(op.Response, &resp); err != nil {
			return nil, &domain.ExecutionError{
				Kind:     domain.ErrorKindUnexpectedResult,
				Function: req.Function,
				Err:      fmt.Errorf("decode response: %w", err),
			}
		}
		result.Result = resp.Result
		result.Raw = json.RawMessage(op.Response)
	}
	return result, nil
}

func (c *ScriptClient) transportError(function string, err error) *domain.ExecutionError {
	execErr := &domain.ExecutionError{
		Kind:     domain.ErrorKindTransport,
		Function: function,
		Err:      WrapError(err),
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		execErr.StatusCode = gerr.Code
		execErr.Message = gerr.Message
	}
	if IsRateLimited(err) {
		c.limiter.RecordRateLimitError(retryAfter(err))
	}
	return execErr
}

// scriptError converts the error status of a finished operation. The first
// detail carries the script's own message and stack trace.
func scriptError(function string, status *script.Status) *domain.ExecutionError {
	execErr := &domain.ExecutionError{
		Kind:     domain.ErrorKindScript,
		Function: function,
		Message:  status.Message,
	}
	if len(status.Details) == 0 {
		return execErr
	}

	var detail script.ExecutionError
	if err := json.Unmarshal(status.Details[0], &detail); err != nil {
		return execErr
	}
	if detail.ErrorMessage != "" {
		execErr.Message = detail.ErrorMessage
	}
	execErr.ErrorType = detail.ErrorType
	for _, el := range detail.ScriptStackTraceElements {
		if el == nil {
			continue
		}
		execErr.StackTrace = append(execErr.StackTrace, domain.StackFrame{
			Function:   el.Function,
			LineNumber: el.LineNumber,
		})
	}
	return execErr
}
