package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"acquisition-console/internal/common/config"
	httpclient "acquisition-console/internal/common/http"
	"acquisition-console/internal/models"
)

// HTTPSource queries the lookup endpoints served next to the prediction API.
type HTTPSource struct {
	http    *httpclient.Client
	baseURL string
}

func NewHTTPSource(cfg config.LookupConfig) *HTTPSource {
	return &HTTPSource{
		http:    httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type competitorsResponse struct {
	Competitors []models.Competitor `json:"competitors"`
	Error       string              `json:"error"`
}

type targetsResponse struct {
	Targets []models.Acquisition `json:"targets"`
	Error   string               `json:"error"`
}

func (s *HTTPSource) Competitors(ctx context.Context, company, industry string) ([]models.Competitor, error) {
	endpoint := fmt.Sprintf("%s/competitors/%s", s.baseURL, url.PathEscape(company))
	if industry != "" {
		endpoint += "?" + url.Values{"industry": {industry}}.Encode()
	}

	var out competitorsResponse
	if err := s.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.Competitors, nil
}

func (s *HTTPSource) AcquisitionTargets(ctx context.Context, acquirer string) ([]models.Acquisition, error) {
	endpoint := fmt.Sprintf("%s/acquisition-targets/%s", s.baseURL, url.PathEscape(acquirer))

	var out targetsResponse
	if err := s.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	return out.Targets, nil
}

func (s *HTTPSource) get(ctx context.Context, endpoint string, dst interface{}) error {
	resp, err := s.http.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Body, dst); err == nil {
		return nil
	}
	// Tolerate truncated or sloppy bodies.
	repaired, err := jsonrepair.RepairJSON(string(resp.Body))
	if err != nil {
		return fmt.Errorf("decode lookup response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), dst); err != nil {
		return fmt.Errorf("decode lookup response: %w", err)
	}
	return nil
}
