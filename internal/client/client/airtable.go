package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

const (
	DefaultAirtableURL = "https://api.airtable.com/v0"
	airtablePageSize   = 100
	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 512
)

type AirtableConfig struct {
	BaseURL      string
	Base         string
	Table        string
	View         string
	APIKey       string
	ActiveStatus string
	Timeout      time.Duration
}

// AirtableClient lists employees from an Airtable table.
type AirtableClient struct {
	cfg        AirtableConfig
	mapping    FieldMapping
	httpClient *http.Client
	log        logging.Logger
}

type airtableRecord struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime"`
}

type airtablePage struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

func NewAirtableClient(cfg AirtableConfig, mapping FieldMapping, log logging.Logger) *AirtableClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAirtableURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &AirtableClient{
		cfg:     cfg,
		mapping: mapping,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{MaxIdleConnsPerHost: 4},
		},
		log: logging.OrDiscard(log).With("module", "airtable_client"),
	}
}

func (c *AirtableClient) ListActive(ctx context.Context, filters models.Filters) ([]models.Employee, error) {
	formula := c.formula(filters)

	result := []models.Employee{}
	var pages pager
	for {
		page, err := c.fetchPage(ctx, formula, pages.offset, nil)
		if err != nil {
			return nil, err
		}

		for _, rec := range page.Records {
			e, err := c.mapping.Decode(rec.ID, rec.Fields)
			if err != nil {
				c.log.Warn(ctx, "skipping malformed record", "id", rec.ID, "error", err)
				continue
			}
			result = append(result, e)
		}

		done, err := pages.next(page.Offset)
		if err != nil {
			return nil, err
		}
		if done {
			return result, nil
		}
	}
}

// CountActive pages through active records fetching only the status field.
func (c *AirtableClient) CountActive(ctx context.Context) (int, error) {
	formula := c.formula(models.Filters{})

	var fields []string
	if c.mapping.Status != "" {
		fields = []string{c.mapping.Status}
	}

	total := 0
	var pages pager
	for {
		page, err := c.fetchPage(ctx, formula, pages.offset, fields)
		if err != nil {
			return 0, err
		}
		total += len(page.Records)

		done, err := pages.next(page.Offset)
		if err != nil {
			return 0, err
		}
		if done {
			return total, nil
		}
	}
}

// pager walks Airtable offsets and refuses to revisit one.
type pager struct {
	offset string
	seen   map[string]struct{}
}

func (p *pager) next(offset string) (bool, error) {
	if offset == "" {
		return true, nil
	}
	if _, ok := p.seen[offset]; ok {
		return false, fmt.Errorf("%w: %w %q", common.ErrTransport, ErrOffsetLoop, offset)
	}
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}
	p.seen[offset] = struct{}{}
	p.offset = offset
	return false, nil
}

func (c *AirtableClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// formula builds filterByFormula: the active status plus one equality per
// set filter, ANDed.
func (c *AirtableClient) formula(f models.Filters) string {
	var clauses []string
	if c.mapping.Status != "" && c.cfg.ActiveStatus != "" {
		clauses = append(clauses, equals(c.mapping.Status, c.cfg.ActiveStatus))
	}
	for _, p := range c.mapping.filterFields(f) {
		clauses = append(clauses, equals(p[0], p[1]))
	}

	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "AND(" + strings.Join(clauses, ", ") + ")"
	}
}

func equals(field, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return fmt.Sprintf("{%s} = '%s'", field, escaped)
}

func (c *AirtableClient) fetchPage(ctx context.Context, formula, offset string, fields []string) (*airtablePage, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(airtablePageSize))
	if c.cfg.View != "" {
		q.Set("view", c.cfg.View)
	}
	if formula != "" {
		q.Set("filterByFormula", formula)
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	for _, f := range fields {
		q.Add("fields[]", f)
	}

	reqURL := fmt.Sprintf("%s/%s/%s?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(c.cfg.Base),
		url.PathEscape(c.cfg.Table),
		q.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build airtable request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable("airtable request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page airtablePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: failed to decode airtable page: %w", common.ErrTransport, err)
	}

	return &page, nil
}
