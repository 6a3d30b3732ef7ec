// Package apply creates, deduplicates, lists, and transitions applications.
// The existence probe before submit is an optimization for a friendly
// message; the backend's uniqueness constraint is the correctness mechanism.
package apply

import (
	"context"
	"log/slog"

	"careernest/internal/api"
	"careernest/internal/common"
	"careernest/internal/domain/application"
	"careernest/internal/domain/posting"
	"careernest/internal/domain/user"
	"careernest/internal/ratelimit"
	"careernest/internal/session"
	"careernest/internal/vocab"
)

// PostingRef names the single posting an application targets.
type PostingRef struct {
	Kind posting.Type
	ID   string
}

type Coordinator struct {
	client    *api.Client
	sessions  *session.Store
	validator *session.Validator
	limiter   *ratelimit.RedisLimiter
	logger    *slog.Logger
}

func NewCoordinator(client *api.Client, sessions *session.Store, validator *session.Validator, limiter *ratelimit.RedisLimiter, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:    client,
		sessions:  sessions,
		validator: validator,
		limiter:   limiter,
		logger:    logger,
	}
}

// CheckExisting probes for a prior application by the signed-in student.
// It is two round trips away from Submit, so a second tab can pass it twice;
// callers treat a false here as "probably not applied", never as proof.
func (c *Coordinator) CheckExisting(ctx context.Context, ref PostingRef) (bool, error) {
	sess, err := c.requireRole(user.RoleStudent)
	if err != nil {
		return false, err
	}
	filter := api.ApplicationFilter{ApplicantEmail: sess.User.Email}
	switch ref.Kind {
	case posting.TypeJob:
		filter.JobID = ref.ID
	case posting.TypeInternship:
		filter.InternshipID = ref.ID
	default:
		return false, common.NewValidationError("invalid posting type", map[string]string{"type": "type must be job or internship"})
	}
	items, err := c.client.ListApplications(ctx, filter)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

// Submit creates an application for the signed-in student. The applicant
// email always comes from the session; a client-supplied email is never
// trusted for authorization.
func (c *Coordinator) Submit(ctx context.Context, ref PostingRef) (*application.Application, error) {
	sess, err := c.requireRole(user.RoleStudent)
	if err != nil {
		return nil, err
	}
	if ref.ID == "" {
		return nil, common.NewValidationError("invalid posting", map[string]string{"id": "posting id is required"})
	}
	if ref.Kind != posting.TypeJob && ref.Kind != posting.TypeInternship {
		return nil, common.NewValidationError("invalid posting type", map[string]string{"type": "type must be job or internship"})
	}
	key := "apply:" + string(ref.Kind) + ":" + ref.ID + ":" + sess.User.Email
	if !c.limiter.Allow(key) {
		return nil, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil)
	}
	created, err := c.client.CreateApplication(ctx, sess.User.Email, ref.Kind, ref.ID)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, err
	}
	c.logger.Info("application submitted", "application_id", created.ID, "posting_id", ref.ID)
	return created, nil
}

// ListMine returns the signed-in student's applications.
func (c *Coordinator) ListMine(ctx context.Context) ([]application.Application, error) {
	sess, err := c.requireRole(user.RoleStudent)
	if err != nil {
		return nil, err
	}
	return c.client.ListApplications(ctx, api.ApplicationFilter{ApplicantEmail: sess.User.Email})
}

// ListForRecruiter returns applications against the signed-in recruiter's
// postings via the recruiter-scoped endpoint; the relationship is not a
// field on Application, so a filter on the generic list cannot express it.
func (c *Coordinator) ListForRecruiter(ctx context.Context) ([]application.Application, error) {
	if _, err := c.requireRole(user.RoleRecruiter); err != nil {
		return nil, err
	}
	return c.client.ListRecruiterApplications(ctx)
}

// UpdateStatus transitions an application, translating the display label to
// the persisted vocabulary before dispatch. Ownership of the target posting
// is enforced by the backend; the role check here fails closed.
func (c *Coordinator) UpdateStatus(ctx context.Context, id, uiStatus, comments string) (*application.Application, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	if sess.User.Role != user.RoleRecruiter && sess.User.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "recruiter or admin role required", nil)
	}
	persisted := vocab.ToPersisted(uiStatus)
	if !knownStatus(persisted) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be reviewing, interviewed, accepted, or rejected"})
	}
	updated, err := c.client.UpdateApplicationStatus(ctx, id, persisted, comments)
	if err != nil {
		return nil, err
	}
	c.logger.Info("application status updated", "application_id", id, "status", string(persisted))
	return updated, nil
}

func knownStatus(status application.Status) bool {
	switch status {
	case application.StatusSubmitted, application.StatusReviewed, application.StatusShortlisted, application.StatusHired, application.StatusRejected:
		return true
	default:
		return false
	}
}

func (c *Coordinator) requireSession() (*session.Session, error) {
	sess, ok := c.sessions.Get()
	if !ok {
		return nil, common.NewError(common.CodeUnauthorized, "sign in required", nil)
	}
	if result := c.validator.Validate(sess.Token); !result.Valid {
		return nil, common.NewError(common.CodeUnauthorized, "session expired", nil)
	}
	return sess, nil
}

func (c *Coordinator) requireRole(role user.Role) (*session.Session, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	if sess.User.Role != role {
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	return sess, nil
}
