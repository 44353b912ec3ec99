package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/SanteonNL/queryfilter/util"
	"github.com/rs/zerolog"
)

// Service renders filter results as JSON response envelopes
type Service struct {
	log zerolog.Logger
}

// Response is the envelope returned for a filtered table. Pagination fields
// are omitted when the result was not paginated.
type Response struct {
	ID          *string     `json:"id,omitempty"`
	Timestamp   *string     `json:"timestamp,omitempty"`
	Table       string      `json:"table"`
	Data        []types.Row `json:"data"`
	Total       int         `json:"total"`
	PerPage     *int        `json:"per_page,omitempty"`
	CurrentPage *int        `json:"current_page,omitempty"`
	LastPage    *int        `json:"last_page,omitempty"`
	Links       []Link      `json:"links,omitempty"`
	Issues      []Issue     `json:"issues,omitempty"`
}

// Link is a pagination link with an absolute URL
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

func NewService(log zerolog.Logger) *Service {
	return &Service{log: log}
}

// CreateResponse materializes the results of applied filters. Links are
// built on baseURL, the URL of the table without query string.
func (s *Service) CreateResponse(ctx context.Context, f *queryfilter.Filters, baseURL string, issues []Issue) (*Response, error) {
	rs, err := f.Results(ctx)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ID:        util.StringPtr(fmt.Sprintf("result-%s", time.Now().Format("20060102150405"))),
		Timestamp: util.StringPtr(time.Now().Format(time.RFC3339)),
		Table:     f.Target().Table(),
		Data:      rs.Rows,
		Total:     rs.Total(),
		Issues:    issues,
	}
	if resp.Data == nil {
		resp.Data = []types.Row{}
	}

	if rs.Page != nil {
		resp.PerPage = util.IntPtr(rs.Page.PerPage)
		resp.CurrentPage = util.IntPtr(rs.Page.CurrentPage)
		resp.LastPage = util.IntPtr(rs.Page.LastPage)
	}

	links, err := f.Links(ctx)
	if err != nil {
		return nil, err
	}
	resp.Links = s.createLinks(baseURL, links)

	s.log.Debug().
		Str("table", resp.Table).
		Int("rows", len(resp.Data)).
		Int("issues", len(resp.Issues)).
		Msg("Created response")

	return resp, nil
}

func (s *Service) createLinks(baseURL string, links []queryfilter.Link) []Link {
	if len(links) == 0 {
		return nil
	}
	baseURL = strings.TrimRight(baseURL, "/")

	result := make([]Link, 0, len(links))
	for _, l := range links {
		result = append(result, Link{
			Relation: l.Rel,
			URL:      fmt.Sprintf("%s?%s", baseURL, l.Query),
		})
	}
	return result
}

// Encode writes resp as JSON without HTML escaping.
func (s *Service) Encode(w io.Writer, resp *Response) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
