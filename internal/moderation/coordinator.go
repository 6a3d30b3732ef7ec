// Package moderation drives the admin review workflow over postings. A
// posting moves pending→approved or pending→rejected exactly once; both
// outcomes are terminal and re-review is rejected client-side.
package moderation

import (
	"context"
	"log/slog"
	"sync"

	"careernest/internal/api"
	"careernest/internal/common"
	"careernest/internal/domain/posting"
	"careernest/internal/domain/user"
	"careernest/internal/session"
)

type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Summary is recomputed from the in-memory collections on demand; the counts
// are never stored, so they cannot drift from the postings themselves.
type Summary struct {
	Jobs        StatusCounts `json:"jobs"`
	Internships StatusCounts `json:"internships"`
}

type Coordinator struct {
	client    *api.Client
	sessions  *session.Store
	validator *session.Validator
	logger    *slog.Logger

	mu          sync.Mutex
	collections map[posting.Type][]posting.Posting
}

func NewCoordinator(client *api.Client, sessions *session.Store, validator *session.Validator, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:      client,
		sessions:    sessions,
		validator:   validator,
		logger:      logger,
		collections: make(map[posting.Type][]posting.Posting, 2),
	}
}

// Refresh replaces one collection with the backend's current state.
func (c *Coordinator) Refresh(ctx context.Context, kind posting.Type) error {
	items, err := c.client.ListPostings(ctx, kind)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.collections[kind] = items
	c.mu.Unlock()
	return nil
}

// Postings returns the last fetched collection in backend order.
func (c *Coordinator) Postings(kind posting.Type) []posting.Posting {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]posting.Posting(nil), c.collections[kind]...)
}

// Decide records an approval decision for a pending posting and refetches
// the affected collection, so the local state always reflects the server
// rather than an optimistic patch. On backend failure the collection is left
// unchanged and no retry is attempted.
func (c *Coordinator) Decide(ctx context.Context, kind posting.Type, id string, decision posting.ApprovalStatus, comments string) error {
	sess, err := c.requireAdmin()
	if err != nil {
		return err
	}
	if decision != posting.StatusApproved && decision != posting.StatusRejected {
		return common.NewValidationError("invalid decision", map[string]string{"status": "decision must be approved or rejected"})
	}
	current, err := c.find(ctx, kind, id)
	if err != nil {
		return err
	}
	if current.ApprovalStatus != posting.StatusPending {
		return common.NewError(common.CodeValidation, "posting already reviewed", nil)
	}
	if _, err := c.client.DecidePosting(ctx, kind, id, decision, comments, sess.User.Email); err != nil {
		c.logger.Warn("moderation decision failed", "posting_id", id, "decision", string(decision), "error", err)
		return err
	}
	c.logger.Info("posting reviewed", "posting_id", id, "decision", string(decision), "reviewed_by", sess.User.Email)
	return c.Refresh(ctx, kind)
}

// Counts derives the per-status totals from whatever is currently loaded.
func (c *Coordinator) Counts() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		Jobs:        countStatuses(c.collections[posting.TypeJob]),
		Internships: countStatuses(c.collections[posting.TypeInternship]),
	}
}

func countStatuses(items []posting.Posting) StatusCounts {
	var counts StatusCounts
	for _, p := range items {
		switch p.ApprovalStatus {
		case posting.StatusPending:
			counts.Pending++
		case posting.StatusApproved:
			counts.Approved++
		case posting.StatusRejected:
			counts.Rejected++
		}
	}
	return counts
}

func (c *Coordinator) find(ctx context.Context, kind posting.Type, id string) (*posting.Posting, error) {
	c.mu.Lock()
	loaded := len(c.collections[kind]) > 0
	c.mu.Unlock()
	if !loaded {
		if err := c.Refresh(ctx, kind); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.collections[kind] {
		if c.collections[kind][i].ID == id {
			copied := c.collections[kind][i]
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "posting not found", nil)
}

// requireAdmin re-checks the session even though guarded screens already
// did; operations invoked directly must fail closed.
func (c *Coordinator) requireAdmin() (*session.Session, error) {
	sess, ok := c.sessions.Get()
	if !ok {
		return nil, common.NewError(common.CodeUnauthorized, "sign in required", nil)
	}
	if result := c.validator.Validate(sess.Token); !result.Valid {
		return nil, common.NewError(common.CodeUnauthorized, "session expired", nil)
	}
	if sess.User.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "admin role required", nil)
	}
	return sess, nil
}
