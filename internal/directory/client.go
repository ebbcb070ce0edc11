package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.airtable.com/v0"

// Record is a single row of a directory table: an opaque identifier plus a
// loosely typed field bag. Use the Field* accessors to coerce values.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime"`
}

type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type Sort struct {
	Field     string
	Direction string
}

type ListParams struct {
	FilterByFormula string
	PageSize        int
	View            string
	Offset          string
	Sort            []Sort
}

// Client talks to the remote directory service over HTTPS. All calls are
// issued with the caller's context; none are retried.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewClient(apiKey string, baseID string) *Client {
	return NewClientWithEndpoint(apiKey, defaultEndpoint+"/"+url.PathEscape(baseID))
}

// NewClientWithEndpoint builds a client against an explicit endpoint. Tests
// point this at a local server.
func NewClientWithEndpoint(apiKey string, endpoint string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
	}
}

func (client *Client) List(ctx context.Context, table string, params ListParams) (ListResponse, error) {
	query := url.Values{}
	if params.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.View != "" {
		query.Set("view", params.View)
	}
	if params.FilterByFormula != "" {
		query.Set("filterByFormula", params.FilterByFormula)
	}
	if params.Offset != "" {
		query.Set("offset", params.Offset)
	}
	for index, sort := range params.Sort {
		direction := sort.Direction
		if direction == "" {
			direction = "asc"
		}
		query.Set(fmt.Sprintf("sort[%d][field]", index), sort.Field)
		query.Set(fmt.Sprintf("sort[%d][direction]", index), direction)
	}

	var response ListResponse
	if err := client.do(ctx, http.MethodGet, table, query, nil, &response); err != nil {
		return ListResponse{}, err
	}
	return response, nil
}

// Create inserts one record and returns it. The service answers a single
// record object here, not a records list.
func (client *Client) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	var record Record
	payload := map[string]any{"fields": fields}
	if err := client.do(ctx, http.MethodPost, table, nil, payload, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (client *Client) Update(ctx context.Context, table string, recordID string, fields map[string]any) (Record, error) {
	var record Record
	payload := map[string]any{"fields": fields}
	path := table + "/" + url.PathEscape(recordID)
	if err := client.do(ctx, http.MethodPatch, path, nil, payload, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// FindOne returns the first record matching the formula, or nil when the
// filter matches nothing.
func (client *Client) FindOne(ctx context.Context, table string, formula string) (*Record, error) {
	response, err := client.List(ctx, table, ListParams{FilterByFormula: formula, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(response.Records) == 0 {
		return nil, nil
	}
	record := response.Records[0]
	return &record, nil
}

// GetByRecordID resolves a record by its directory-assigned identifier; a
// missing record yields nil, not an error.
func (client *Client) GetByRecordID(ctx context.Context, table string, recordID string) (*Record, error) {
	return client.FindOne(ctx, table, ByRecordID(recordID))
}

func (client *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	target := client.endpoint + "/" + encodeTablePath(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode directory payload: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build directory request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("directory unreachable: %w", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("read directory response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return decodeRequestError(response.StatusCode, response.Status, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode directory response: %w", err)
	}
	return nil
}

// encodeTablePath escapes a table name while leaving an embedded record id
// segment intact.
func encodeTablePath(path string) string {
	segments := strings.SplitN(path, "/", 2)
	encoded := url.PathEscape(segments[0])
	if len(segments) == 2 {
		encoded += "/" + segments[1]
	}
	return encoded
}
