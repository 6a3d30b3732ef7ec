// Package api is the HTTP client of the marketplace backend. It speaks JSON
// over REST, authenticates with the stored bearer token, and maps backend
// failures onto the shared error codes so callers never see raw status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"careernest/internal/common"
	"careernest/internal/domain/application"
	"careernest/internal/domain/posting"
	"careernest/internal/metrics"
)

// TokenSource yields the current bearer token; an empty string means the
// call goes out unauthenticated and the backend answers 401.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	collector  *metrics.Collector
}

func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, collector *metrics.Collector) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    trimmed,
		httpClient: httpClient,
		tokens:     tokens,
		collector:  collector,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type decisionRequest struct {
	Status     string `json:"status"`
	Comments   string `json:"comments,omitempty"`
	ReviewedBy string `json:"reviewed_by"`
}

type createApplicationRequest struct {
	ApplicantEmail string `json:"applicant_email"`
	JobID          string `json:"job_id,omitempty"`
	InternshipID   string `json:"internship_id,omitempty"`
	Type           string `json:"application_type"`
}

type statusUpdateRequest struct {
	Status   string `json:"status"`
	Comments string `json:"comments,omitempty"`
}

// ApplicationFilter narrows GET /applications. Recruiter listings do not use
// it; they go through the recruiter-scoped endpoint instead.
type ApplicationFilter struct {
	ApplicantEmail string
	JobID          string
	InternshipID   string
}

func (c *Client) ListPostings(ctx context.Context, kind posting.Type) ([]posting.Posting, error) {
	var items []posting.Posting
	if err := c.do(ctx, http.MethodGet, "/"+collectionPath(kind), nil, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Type = kind
	}
	return items, nil
}

// DecidePosting records an admin approval decision. The caller passes the
// reviewer email for the audit record; authorization itself is the bearer
// token's role claim.
func (c *Client) DecidePosting(ctx context.Context, kind posting.Type, id string, decision posting.ApprovalStatus, comments, reviewedBy string) (*posting.Posting, error) {
	body := decisionRequest{Status: string(decision), Comments: comments, ReviewedBy: reviewedBy}
	path := fmt.Sprintf("/%s/%s/approval", collectionPath(kind), url.PathEscape(id))
	var updated posting.Posting
	if err := c.do(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return nil, err
	}
	updated.Type = kind
	return &updated, nil
}

func (c *Client) ListApplications(ctx context.Context, filter ApplicationFilter) ([]application.Application, error) {
	query := url.Values{}
	if filter.ApplicantEmail != "" {
		query.Set("applicant_email", filter.ApplicantEmail)
	}
	if filter.JobID != "" {
		query.Set("job_id", filter.JobID)
	}
	if filter.InternshipID != "" {
		query.Set("internship_id", filter.InternshipID)
	}
	path := "/applications"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var items []application.Application
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRecruiterApplications returns applications against the calling
// recruiter's postings. The recruiter is identified by the bearer token; the
// relationship is resolved server-side because Application carries no
// recruiter field.
func (c *Client) ListRecruiterApplications(ctx context.Context) ([]application.Application, error) {
	var items []application.Application
	if err := c.do(ctx, http.MethodGet, "/recruiters/applications", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateApplication(ctx context.Context, applicantEmail string, kind posting.Type, postingID string) (*application.Application, error) {
	body := createApplicationRequest{ApplicantEmail: applicantEmail, Type: string(kind)}
	switch kind {
	case posting.TypeJob:
		body.JobID = postingID
	case posting.TypeInternship:
		body.InternshipID = postingID
	}
	var created application.Application
	if err := c.do(ctx, http.MethodPost, "/applications", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateApplicationStatus expects status already in the persisted vocabulary.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status application.Status, comments string) (*application.Application, error) {
	body := statusUpdateRequest{Status: string(status), Comments: comments}
	path := "/applications/" + url.PathEscape(id) + "/status"
	var updated application.Application
	if err := c.do(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return common.NewError(common.CodeUnavailable, "api base url is not configured", nil)
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return common.NewError(common.CodeInternal, "encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return common.NewError(common.CodeInternal, "create request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	c.collector.IncRequests()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.collector.IncErrors()
		return common.NewError(common.CodeUnavailable, "send request", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.collector.IncErrors()
		return common.NewError(common.CodeUnavailable, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.collector.IncErrors()
		return mapError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return common.NewError(common.CodeUnavailable, "decode response", err)
	}
	return nil
}

func mapError(statusCode int, payload []byte) error {
	message := ""
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil {
		message = strings.TrimSpace(parsed.Message)
		if message == "" {
			message = strings.TrimSpace(parsed.Error)
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(payload))
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	switch statusCode {
	case http.StatusUnauthorized:
		return common.NewError(common.CodeUnauthorized, message, nil)
	case http.StatusForbidden:
		return common.NewError(common.CodeForbidden, message, nil)
	case http.StatusNotFound:
		return common.NewError(common.CodeNotFound, message, nil)
	case http.StatusConflict:
		return common.NewError(common.CodeConflict, message, nil)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return common.NewError(common.CodeValidation, message, nil)
	case http.StatusTooManyRequests:
		return common.NewError(common.CodeRateLimited, message, nil)
	default:
		return common.NewError(common.CodeUnavailable, message, nil)
	}
}

func collectionPath(kind posting.Type) string {
	if kind == posting.TypeInternship {
		return "internships"
	}
	return "jobs"
}
