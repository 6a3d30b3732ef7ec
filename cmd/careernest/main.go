package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"careernest/internal/api"
	"careernest/internal/apply"
	"careernest/internal/common"
	"careernest/internal/config"
	"careernest/internal/domain/posting"
	"careernest/internal/domain/user"
	"careernest/internal/guard"
	"careernest/internal/metrics"
	"careernest/internal/moderation"
	"careernest/internal/ratelimit"
	"careernest/internal/session"
	"careernest/internal/visibility"
	"careernest/internal/vocab"
)

const usage = `usage: careernest <command> [flags]

commands:
  login         store a session token
  logout        clear the stored session
  whoami        show the current session
  postings      list postings visible to the current role
  apply         submit an application to a posting
  applications  list applications (student or recruiter view)
  status        update an application status (recruiter/admin)
  review        approve or reject a pending posting (admin)
  counts        show moderation totals (admin)
  prefs         update notification preferences
`

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error (%s): %v\n", common.CodeOf(err), err)
		os.Exit(1)
	}
	requests, errors := app.collector.Snapshot()
	logger.Debug("api calls", "requests", requests, "errors", errors)
}

type cliApp struct {
	cfg        config.Config
	logger     *slog.Logger
	sessions   *session.Store
	validator  *session.Validator
	guard      *guard.Guard
	client     *api.Client
	collector  *metrics.Collector
	moderation *moderation.Coordinator
	apply      *apply.Coordinator
}

func newApp(cfg config.Config, logger *slog.Logger) (*cliApp, error) {
	sessions, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	validator := session.NewValidator()
	collector := metrics.NewCollector()
	client := api.NewClient(cfg.APIBaseURL, sessions, &http.Client{Timeout: cfg.APITimeout}, collector)

	var limiter *ratelimit.RedisLimiter
	if cfg.RedisURL != "" {
		options, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(options), cfg.ApplyRateLimit, cfg.ApplyRateWindow, "careernest")
	}

	paths := guard.DefaultPaths()
	paths.StudentSignIn = cfg.GuardStudentPath
	paths.RecruiterSignIn = cfg.GuardRecruitPath
	paths.AdminSignIn = cfg.GuardAdminPath

	return &cliApp{
		cfg:        cfg,
		logger:     logger,
		sessions:   sessions,
		validator:  validator,
		guard:      guard.New(validator, paths),
		client:     client,
		collector:  collector,
		moderation: moderation.NewCoordinator(client, sessions, validator, logger),
		apply:      apply.NewCoordinator(client, sessions, validator, limiter, logger),
	}, nil
}

func (a *cliApp) run(command string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*a.cfg.APITimeout)
	defer cancel()

	switch command {
	case "login":
		return a.login(args)
	case "logout":
		return a.sessions.Clear()
	case "whoami":
		return a.whoami()
	case "postings":
		return a.postings(ctx, args)
	case "apply":
		return a.applyCmd(ctx, args)
	case "applications":
		return a.applications(ctx)
	case "status":
		return a.statusCmd(ctx, args)
	case "review":
		return a.review(ctx, args)
	case "counts":
		return a.counts(ctx)
	case "prefs":
		return a.prefs(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *cliApp) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	token := fs.String("token", "", "signed session token")
	_ = fs.Parse(args)
	if *token == "" {
		return common.NewValidationError("token is required", map[string]string{"token": "pass -token"})
	}
	result := a.validator.Validate(*token)
	if !result.Valid {
		return common.NewError(common.CodeUnauthorized, "token rejected: "+string(result.Reason), nil)
	}
	account := session.UserFromClaims(result.Claims)
	if account.Role == "" {
		return common.NewError(common.CodeUnauthorized, "token carries no role claim", nil)
	}
	if err := a.sessions.Save(session.Session{Token: *token, User: account}); err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", account.Email, account.Role)
	return nil
}

func (a *cliApp) whoami() error {
	sess, ok := a.sessions.Get()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	result := a.validator.Validate(sess.Token)
	state := "valid"
	if !result.Valid {
		state = string(result.Reason)
	}
	fmt.Printf("%s (%s), token %s\n", sess.User.Email, sess.User.Role, state)
	return nil
}

func (a *cliApp) postings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("postings", flag.ExitOnError)
	kindFlag := fs.String("type", "job", "posting type: job or internship")
	_ = fs.Parse(args)
	kind, err := parseKind(*kindFlag)
	if err != nil {
		return err
	}
	items, err := a.client.ListPostings(ctx, kind)
	if err != nil {
		return err
	}
	sess, ok := a.sessions.Get()
	if !ok {
		// Anonymous browsing gets the student view: approved only.
		sess = &session.Session{User: user.User{Role: user.RoleStudent}}
	}
	if sess.User.Role == user.RoleAdmin {
		buckets := visibility.PartitionByStatus(items)
		for _, status := range []posting.ApprovalStatus{posting.StatusPending, posting.StatusApproved, posting.StatusRejected} {
			fmt.Printf("-- %s --\n", status)
			printPostings(buckets[status])
		}
		return nil
	}
	printPostings(visibility.Visible(items, sess.User))
	return nil
}

func printPostings(items []posting.Posting) {
	for _, p := range items {
		line := fmt.Sprintf("%s  %s @ %s [%s]", p.ID, p.Title, p.Company, p.ApprovalStatus)
		if p.AdminReview != nil && p.AdminReview.Comments != "" {
			line += "  // " + p.AdminReview.Comments
		}
		fmt.Println(line)
	}
}

func (a *cliApp) applyCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	kindFlag := fs.String("type", "job", "posting type: job or internship")
	id := fs.String("id", "", "posting id")
	_ = fs.Parse(args)
	kind, err := parseKind(*kindFlag)
	if err != nil {
		return err
	}
	if err := a.requireScreen(user.RoleStudent); err != nil {
		return err
	}
	ref := apply.PostingRef{Kind: kind, ID: *id}
	exists, err := a.apply.CheckExisting(ctx, ref)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("already applied")
		return nil
	}
	created, err := a.apply.Submit(ctx, ref)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			fmt.Println("already applied")
			return nil
		}
		return err
	}
	fmt.Printf("application %s submitted (%s)\n", created.ID, vocab.ToDisplay(created.Status))
	return nil
}

func (a *cliApp) applications(ctx context.Context) error {
	sess, ok := a.sessions.Get()
	if !ok {
		return common.NewError(common.CodeUnauthorized, "sign in required", nil)
	}
	var items []applicationRow
	switch sess.User.Role {
	case user.RoleStudent:
		list, err := a.apply.ListMine(ctx)
		if err != nil {
			return err
		}
		for _, item := range list {
			items = append(items, applicationRow{item.ID, item.PostingID(), vocab.ToDisplay(item.Status)})
		}
	case user.RoleRecruiter:
		list, err := a.apply.ListForRecruiter(ctx)
		if err != nil {
			return err
		}
		for _, item := range list {
			items = append(items, applicationRow{item.ID, item.ApplicantEmail, vocab.ToDisplay(item.Status)})
		}
	default:
		return common.NewError(common.CodeForbidden, "student or recruiter role required", nil)
	}
	for _, row := range items {
		fmt.Printf("%s  %s  %s\n", row.id, row.subject, row.status)
	}
	return nil
}

type applicationRow struct {
	id      string
	subject string
	status  string
}

func (a *cliApp) statusCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	id := fs.String("id", "", "application id")
	status := fs.String("status", "", "new status (reviewing, interviewed, accepted, rejected)")
	comments := fs.String("comments", "", "optional comments")
	_ = fs.Parse(args)
	updated, err := a.apply.UpdateStatus(ctx, *id, *status, *comments)
	if err != nil {
		return err
	}
	fmt.Printf("application %s is now %s\n", updated.ID, vocab.ToDisplay(updated.Status))
	return nil
}

func (a *cliApp) review(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	kindFlag := fs.String("type", "job", "posting type: job or internship")
	id := fs.String("id", "", "posting id")
	decision := fs.String("decision", "", "approved or rejected")
	comments := fs.String("comments", "", "review comments")
	_ = fs.Parse(args)
	kind, err := parseKind(*kindFlag)
	if err != nil {
		return err
	}
	if err := a.requireScreen(user.RoleAdmin); err != nil {
		return err
	}
	if err := a.moderation.Decide(ctx, kind, *id, posting.ApprovalStatus(strings.ToLower(*decision)), *comments); err != nil {
		return err
	}
	fmt.Printf("posting %s %s\n", *id, strings.ToLower(*decision))
	return nil
}

func (a *cliApp) counts(ctx context.Context) error {
	if err := a.requireScreen(user.RoleAdmin); err != nil {
		return err
	}
	for _, kind := range []posting.Type{posting.TypeJob, posting.TypeInternship} {
		if err := a.moderation.Refresh(ctx, kind); err != nil {
			return err
		}
	}
	summary := a.moderation.Counts()
	fmt.Printf("jobs:        pending=%d approved=%d rejected=%d\n", summary.Jobs.Pending, summary.Jobs.Approved, summary.Jobs.Rejected)
	fmt.Printf("internships: pending=%d approved=%d rejected=%d\n", summary.Internships.Pending, summary.Internships.Approved, summary.Internships.Rejected)
	return nil
}

func (a *cliApp) prefs(args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	onDecision := fs.Bool("email-on-decision", false, "email when a posting is reviewed")
	onStatus := fs.Bool("email-on-status", false, "email when an application status changes")
	_ = fs.Parse(args)
	return a.sessions.SavePrefs(session.NotificationPrefs{
		EmailOnDecision: *onDecision,
		EmailOnStatus:   *onStatus,
	})
}

// requireScreen runs the route guard the way a routed screen would before
// handing control to a coordinator.
func (a *cliApp) requireScreen(required user.Role) error {
	sess, _ := a.sessions.Get()
	decision := a.guard.Authorize(required, sess)
	if !decision.Allow {
		return common.NewError(common.CodeUnauthorized, "sign in required, see "+decision.RedirectTo, nil)
	}
	return nil
}

func parseKind(value string) (posting.Type, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "job", "jobs":
		return posting.TypeJob, nil
	case "internship", "internships":
		return posting.TypeInternship, nil
	default:
		return "", common.NewValidationError("invalid posting type", map[string]string{"type": "type must be job or internship"})
	}
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
