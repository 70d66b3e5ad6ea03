package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	apperrors "github.com/emilythestrangee/whispr/backend/internal/errors"
)

const (
	urlEnv = "SUPABASE_URL"
	keyEnv = "SUPABASE_ANON_KEY"
)

// Row is one loosely-typed record from the remote table. Callers map it into
// their own shape defensively; the remote schema may vary across deployments.
type Row map[string]any

// SelectOptions controls the shape of a Select query.
type SelectOptions struct {
	OrderBy    string
	Descending bool
}

// Service represents the handle to the remote table store. A single handle is
// reused for the process lifetime; per-call failures are the caller's problem,
// there is no retry or reconnect logic here.
type Service interface {
	// Select returns all rows of a table, optionally ordered by one column.
	Select(ctx context.Context, table string, opts SelectOptions) ([]Row, error)

	// Insert adds one record and returns the stored representation.
	Insert(ctx context.Context, table string, record map[string]any) (Row, error)

	// Update patches the row with the given primary-key id.
	Update(ctx context.Context, table string, id string, patch map[string]any) error

	// Health returns a map of health status information.
	Health(ctx context.Context) map[string]string
}

type service struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var dbInstance *service

// New returns the process-wide store handle, constructing it on first use.
// Both settings must be present in the environment; a missing value is a
// configuration error raised before any network attempt. Construction itself
// performs no I/O.
func New() (Service, error) {
	// Reuse handle
	if dbInstance != nil {
		return dbInstance, nil
	}

	endpoint := os.Getenv(urlEnv)
	apiKey := os.Getenv(keyEnv)
	if endpoint == "" || apiKey == "" {
		return nil, apperrors.ConfigurationError(
			fmt.Sprintf("%s and %s must be set", urlEnv, keyEnv))
	}

	dbInstance = &service{
		baseURL: strings.TrimSuffix(endpoint, "/") + "/rest/v1",
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}

	return dbInstance, nil
}

func (s *service) do(ctx context.Context, method, table string, query url.Values, body any, prefer string) ([]byte, error) {
	endpoint := s.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", table, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

func (s *service) Select(ctx context.Context, table string, opts SelectOptions) ([]Row, error) {
	query := url.Values{}
	query.Set("select", "*")
	if opts.OrderBy != "" {
		direction := "asc"
		if opts.Descending {
			direction = "desc"
		}
		query.Set("order", opts.OrderBy+"."+direction)
	}

	data, err := s.do(ctx, http.MethodGet, table, query, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s rows: %w", table, err)
	}

	return rows, nil
}

func (s *service) Insert(ctx context.Context, table string, record map[string]any) (Row, error) {
	data, err := s.do(ctx, http.MethodPost, table, nil, record, "return=representation")
	if err != nil {
		return nil, err
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding inserted %s row: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no representation", table)
	}

	return rows[0], nil
}

func (s *service) Update(ctx context.Context, table string, id string, patch map[string]any) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	_, err := s.do(ctx, http.MethodPatch, table, query, patch, "")
	return err
}

// Health checks the remote table store by issuing a bare request against the
// REST root.
func (s *service) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL+"/", nil)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("store error: %v", err)
		return stats
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("store down: %v", err)
		return stats
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("store responded %d", resp.StatusCode)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	return stats
}
