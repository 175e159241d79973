package timekeeping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
)

// Source is the timekeeping collaborator: it yields one month of raw
// daily records, fully drained in page order. A failure on any page
// aborts the whole fetch; nothing partial is returned.
type Source interface {
	FetchMonth(ctx context.Context, month string) (MonthData, error)
}

// MonthData is the fully drained record set for one month.
type MonthData struct {
	Records []attendance.ExternalTimeRecord
	Pages   int
}

var (
	ErrAuthentication = errors.New("timekeeping authentication failed")
	ErrFetch          = errors.New("timekeeping fetch failed")
)

// SyncError carries diagnostic context for an aborted sync: which page
// failed and how much had been retrieved before the failure.
type SyncError struct {
	Op               string // "auth" or "fetch"
	Page             int
	RecordsRetrieved int
	Cause            error
}

func (e *SyncError) Error() string {
	if e.Op == "auth" {
		return fmt.Sprintf("timekeeping auth failed: %v", e.Cause)
	}
	return fmt.Sprintf("timekeeping fetch failed at page %d after %d records: %v", e.Page, e.RecordsRetrieved, e.Cause)
}

func (e *SyncError) Unwrap() error {
	if e.Op == "auth" {
		return ErrAuthentication
	}
	return ErrFetch
}

// HTTPSource talks to the timekeeping vendor's REST API.
type HTTPSource struct {
	baseURL  string
	tenantID string
	apiKey   string
	client   *http.Client
}

func NewHTTPSource(baseURL, tenantID, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL:  baseURL,
		tenantID: tenantID,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type recordPage struct {
	Records    []attendance.ExternalTimeRecord `json:"records"`
	Page       int                             `json:"page"`
	TotalPages int                             `json:"total_pages"`
}

// authenticate exchanges the tenant credential for a bearer token.
func (s *HTTPSource) authenticate(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"tenant_id": s.tenantID,
		"api_key":   s.apiKey,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}
	return tr.Token, nil
}

// FetchMonth authenticates and drains every page for the month in order.
// Pagination stops when the current page index reaches the total-page
// count reported in response metadata, or when a page comes back empty.
func (s *HTTPSource) FetchMonth(ctx context.Context, month string) (MonthData, error) {
	token, err := s.authenticate(ctx)
	if err != nil {
		return MonthData{}, &SyncError{Op: "auth", Cause: err}
	}

	var records []attendance.ExternalTimeRecord
	page := 1
	for {
		pageData, err := s.fetchPage(ctx, token, month, page)
		if err != nil {
			return MonthData{}, &SyncError{Op: "fetch", Page: page, RecordsRetrieved: len(records), Cause: err}
		}

		records = append(records, pageData.Records...)

		if len(pageData.Records) == 0 || page >= pageData.TotalPages {
			return MonthData{Records: records, Pages: page}, nil
		}
		page++
	}
}

func (s *HTTPSource) fetchPage(ctx context.Context, token, month string, page int) (recordPage, error) {
	u := fmt.Sprintf("%s/api/v1/timerecords?month=%s&page=%d", s.baseURL, url.QueryEscape(month), page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return recordPage{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return recordPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return recordPage{}, fmt.Errorf("timerecords endpoint returned status %d", resp.StatusCode)
	}

	var rp recordPage
	if err := json.NewDecoder(resp.Body).Decode(&rp); err != nil {
		return recordPage{}, fmt.Errorf("decode page %d: %w", page, err)
	}
	return rp, nil
}
