// Package prediction calls the remote scoring service.
package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"go.opentelemetry.io/otel/attribute"

	"acquisition-console/internal/common/config"
	apperrors "acquisition-console/internal/common/errors"
	httpclient "acquisition-console/internal/common/http"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/common/observability"
	"acquisition-console/internal/common/validation"
	"acquisition-console/internal/models"
)

const (
	serviceName = "prediction"
	predictPath = "/predict"
)

type Client struct {
	http     *httpclient.Client
	baseURL  string
	validate bool
	logger   logger.Logger
	obs      *observability.Observability
}

func NewClient(cfg config.PredictionConfig, log logger.Logger, obs *observability.Observability) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		http:     httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		validate: cfg.ValidatePayload,
		logger:   logger.Component(log, "prediction-client"),
		obs:      obs,
	}
}

// Predict posts req and returns the decoded response. Failures carry the
// service's own message when it sent one.
func (c *Client) Predict(ctx context.Context, req models.AnalysisRequest) (result models.AnalysisResult, err error) {
	ctx, span := c.obs.StartSpan(ctx, "prediction.predict")
	defer func() { observability.EndSpan(span, err) }()

	if c.validate {
		if err := c.checkPayload(req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.baseURL+predictPath, req)
	if err != nil {
		c.logger.Error("prediction request failed", map[string]interface{}{
			"error":      err,
			"durationMs": time.Since(start).Milliseconds(),
		})
		if isTimeout(err) {
			return nil, apperrors.NewServiceTimeoutError(serviceName, err)
		}
		return nil, apperrors.NewServiceFailureError(err.Error(), 0, err)
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("request.id", resp.RequestID),
	)
	fields := map[string]interface{}{
		"status":     resp.StatusCode,
		"requestId":  resp.RequestID,
		"durationMs": time.Since(start).Milliseconds(),
	}

	if !resp.OK() {
		message := detailMessage(resp.Body)
		if message == "" {
			message = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
		}
		fields["detail"] = message
		c.logger.Warn("prediction service returned an error status", fields)
		return nil, apperrors.NewServiceFailureError(message, resp.StatusCode,
			fmt.Errorf("status %d", resp.StatusCode))
	}

	result, err = decodeResult(resp.Body)
	if err != nil {
		c.logger.Error("prediction response could not be decoded", fields)
		return nil, err
	}

	// The service reports some failures as a 2xx body holding only "error".
	if msg, ok := result["error"].(string); ok && len(result) == 1 {
		fields["detail"] = msg
		c.logger.Warn("prediction service reported an error", fields)
		return nil, apperrors.NewServiceFailureError(msg, resp.StatusCode, errors.New(msg))
	}

	c.logger.Info("prediction received", fields)
	return result, nil
}

func (c *Client) checkPayload(req models.AnalysisRequest) error {
	res, err := validation.ValidateDocument(validation.AnalysisRequestSchema, req.AsDocument())
	if err != nil {
		return apperrors.NewPayloadInvalidError(err.Error())
	}
	if !res.Valid {
		details := strings.Join(res.GetErrorMessages(), "; ")
		c.logger.Warn("analysis request failed schema validation", map[string]interface{}{"details": details})
		return apperrors.NewPayloadInvalidError(details)
	}
	return nil
}

// decodeResult accepts a JSON object, repairing malformed text first.
func decodeResult(body []byte) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err == nil && result != nil {
		return result, nil
	}

	repaired, err := jsonrepair.RepairJSON(string(body))
	if err != nil {
		return nil, apperrors.NewResponseDecodeError(err)
	}
	result = nil
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil, apperrors.NewResponseDecodeError(err)
	}
	if result == nil {
		return nil, apperrors.NewResponseDecodeError(errors.New("response is not a JSON object"))
	}
	return result, nil
}

// detailMessage extracts "detail" from an error body. Validation errors
// carry a list of {msg} objects.
func detailMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return payload.Error
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
