// Package service coordinates the compliance form: it loads a user's record
// and payout profile, resolves and localizes the field plan, and applies
// edits atomically with an audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"payoutkyc/internal/audit"
	"payoutkyc/internal/compliance/edit"
	"payoutkyc/internal/compliance/metrics"
	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/options"
	"payoutkyc/internal/compliance/resolver"
	"payoutkyc/internal/compliance/store/record"
	"payoutkyc/internal/device"
	id "payoutkyc/pkg/domain"
	dErrors "payoutkyc/pkg/domain-errors"
	"payoutkyc/pkg/platform/sentinel"
	"payoutkyc/pkg/requestcontext"
)

// RecordStore persists compliance snapshots.
type RecordStore interface {
	Find(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error)
	Update(ctx context.Context, userID id.UserID, fn record.UpdateFunc) (models.ComplianceInfo, error)
}

// ProfileStore persists payout profiles.
type ProfileStore interface {
	Find(ctx context.Context, userID id.UserID) (models.Profile, error)
	Save(ctx context.Context, p models.Profile) error
	MarkTaxIDEntered(ctx context.Context, seed models.Profile, field models.FieldName) (models.Profile, error)
}

// Localizer translates plan labels.
type Localizer interface {
	Localize(plan models.FieldPlan, langs ...string) models.FieldPlan
}

// AuditPublisher records compliance changes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Catalog supplies selector options.
type Catalog interface {
	resolver.Catalog
}

// Service is safe for concurrent use.
type Service struct {
	records  RecordStore
	profiles ProfileStore
	catalog  Catalog
	resolver *resolver.Resolver

	localizer Localizer
	auditor   AuditPublisher
	devices   *device.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer

	defaultUser   models.User
	defaultPayout models.PayoutMethod
	minAge        int
}

// Option configures a Service.
type Option func(*Service)

func WithLocalizer(l Localizer) Option {
	return func(s *Service) { s.localizer = l }
}

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) { s.auditor = a }
}

func WithDeviceService(d *device.Service) Option {
	return func(s *Service) { s.devices = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultProfile sets the profile used for users that have none stored.
func WithDefaultProfile(user models.User, method models.PayoutMethod) Option {
	return func(s *Service) {
		s.defaultUser = user
		s.defaultPayout = method
	}
}

// WithMinAge sets the youngest age offered by the birth year selector.
func WithMinAge(years int) Option {
	return func(s *Service) { s.minAge = years }
}

func New(records RecordStore, profiles ProfileStore, catalog Catalog, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if catalog == nil {
		return nil, errors.New("option catalog is required")
	}
	s := &Service{
		records:       records,
		profiles:      profiles,
		catalog:       catalog,
		resolver:      resolver.New(catalog),
		logger:        slog.Default(),
		tracer:        otel.Tracer("payoutkyc/compliance"),
		defaultPayout: models.PayoutMethodBank,
		minAge:        13,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PlanResult is the redacted record with its plan.
type PlanResult struct {
	Record models.ComplianceInfo `json:"record"`
	Plan   models.FieldPlan      `json:"plan"`
}

// EditResult describes an applied edit. Patch omits the values of sensitive
// fields; Changed lists every field the edit touched.
type EditResult struct {
	Patch   models.Patch          `json:"patch"`
	Changed []models.FieldName    `json:"changed"`
	Record  models.ComplianceInfo `json:"record"`
	Plan    models.FieldPlan      `json:"plan"`
}

// PreviewInput is a caller-supplied snapshot resolved without storage.
type PreviewInput struct {
	Info          models.ComplianceInfo
	User          models.User
	PayoutMethod  models.PayoutMethod
	InvalidFields models.FieldSet
}

// OptionsResult lists the static selector options.
type OptionsResult struct {
	Countries []models.Option `json:"countries"`
	Months    []models.Option `json:"months"`
	Days      []models.Option `json:"days"`
	Years     []models.Option `json:"years"`
}

// Plan loads the user's record and profile and resolves the field plan.
func (s *Service) Plan(ctx context.Context, userID id.UserID, invalid models.FieldSet) (*PlanResult, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Plan", trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer span.End()
	start := time.Now()

	var (
		info    models.ComplianceInfo
		profile models.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.loadRecord(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.loadProfile(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}

	plan := s.resolve(ctx, info, profile, invalid)
	s.metrics.ObserveResolve(time.Since(start))
	return &PlanResult{Record: info.Redacted(), Plan: plan}, nil
}

// Edit applies one edit atomically. The patch is built from the snapshot
// read inside the store update, so concurrent edits never work from stale
// data.
func (s *Service) Edit(ctx context.Context, userID id.UserID, e edit.Edit, invalid models.FieldSet) (*EditResult, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Edit", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("field", string(e.Field)),
		attribute.String("action", string(e.Action)),
	))
	defer span.End()
	start := time.Now()

	var fallbacks []models.FieldName
	builder := edit.NewBuilder(edit.WithPhoneFallback(func(f models.FieldName) {
		fallbacks = append(fallbacks, f)
	}))

	var patch models.Patch
	info, err := s.records.Update(ctx, userID, func(current models.ComplianceInfo) (models.ComplianceInfo, error) {
		// Reset on every attempt: optimistic stores may call this more than once.
		fallbacks = fallbacks[:0]
		p, err := builder.Build(current, e)
		if err != nil {
			return models.ComplianceInfo{}, err
		}
		next, err := models.Apply(current, p)
		if err != nil {
			return models.ComplianceInfo{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not apply edit")
		}
		patch = p
		return next, nil
	})
	if err != nil {
		err = s.editError(err)
		s.metrics.IncrementEditRejected(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "edit rejected")
		s.logger.InfoContext(ctx, "compliance edit rejected",
			"user_id", userID.String(),
			"field", string(e.Field),
			"action", string(e.Action),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	for _, f := range fallbacks {
		s.metrics.IncrementPhoneFallback(string(f))
		s.logger.WarnContext(ctx, "phone number kept unnormalized",
			"user_id", userID.String(),
			"field", string(f),
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	profile, err := s.profileAfterEdit(ctx, userID, patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	action := auditAction(e, patch)
	s.emit(ctx, userID, action, patch.Fields())
	s.metrics.IncrementEditApplied(string(action))

	plan := s.resolve(ctx, info, profile, invalid)
	s.metrics.ObserveEdit(time.Since(start))

	return &EditResult{
		Patch:   redactPatch(patch),
		Changed: patch.Fields(),
		Record:  info.Redacted(),
		Plan:    plan,
	}, nil
}

// Preview resolves a caller-supplied snapshot without touching storage.
func (s *Service) Preview(ctx context.Context, in PreviewInput) models.FieldPlan {
	_, span := s.tracer.Start(ctx, "compliance.Preview")
	defer span.End()

	method := in.PayoutMethod
	if method == "" {
		method = s.defaultPayout
	}
	return s.resolve(ctx, in.Info, models.Profile{User: in.User, PayoutMethod: method}, in.InvalidFields)
}

// Record returns the stored snapshot with tax IDs blanked.
func (s *Service) Record(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error) {
	info, err := s.loadRecord(ctx, userID)
	if err != nil {
		return models.ComplianceInfo{}, err
	}
	return info.Redacted(), nil
}

// Profile returns the stored payout profile, or the default one.
func (s *Service) Profile(ctx context.Context, userID id.UserID) (models.Profile, error) {
	return s.loadProfile(ctx, userID)
}

// SaveProfile replaces the profile flags and payout method of a user.
// Entered flags only ever move from false to true.
func (s *Service) SaveProfile(ctx context.Context, userID id.UserID, user models.User, method models.PayoutMethod) (models.Profile, error) {
	current, err := s.loadProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	user.IndividualTaxIDEntered = user.IndividualTaxIDEntered || current.User.IndividualTaxIDEntered
	user.BusinessTaxIDEntered = user.BusinessTaxIDEntered || current.User.BusinessTaxIDEntered
	if method == "" {
		method = current.PayoutMethod
	}
	p := models.Profile{
		UserID:       userID,
		User:         user,
		PayoutMethod: method,
		UpdatedAt:    requestcontext.Now(ctx),
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save payout profile")
	}
	return p, nil
}

// Options returns the selector options that do not depend on the record.
func (s *Service) Options(ctx context.Context) OptionsResult {
	return OptionsResult{
		Countries: s.catalog.Countries(),
		Months:    options.Months(),
		Days:      options.Days(),
		Years:     options.Years(s.minDOBYear(ctx)),
	}
}

func (s *Service) resolve(ctx context.Context, info models.ComplianceInfo, profile models.Profile, invalid models.FieldSet) models.FieldPlan {
	plan := s.resolver.Resolve(resolver.Input{
		Info:          info,
		User:          profile.User,
		PayoutMethod:  profile.PayoutMethod,
		InvalidFields: invalid,
		MinDOBYear:    s.minDOBYear(ctx),
	})

	accountType := edit.AccountTypeIndividual
	if info.IsBusiness {
		accountType = edit.AccountTypeBusiness
	}
	s.metrics.IncrementPlanResolved(info.PrimaryCountry(), accountType)
	for _, w := range plan.Warnings {
		s.metrics.IncrementWarning(string(w.Code))
	}

	if s.localizer != nil {
		if lang := requestcontext.Language(ctx); lang != "" {
			plan = s.localizer.Localize(plan, lang)
		}
	}
	return plan
}

func (s *Service) minDOBYear(ctx context.Context) int {
	return requestcontext.Now(ctx).Year() - s.minAge + 1
}

// loadRecord treats a missing record as a first visit.
func (s *Service) loadRecord(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error) {
	info, err := s.records.Find(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ComplianceInfo{}, nil
	}
	if err != nil {
		return models.ComplianceInfo{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load compliance record")
	}
	return info, nil
}

func (s *Service) loadProfile(ctx context.Context, userID id.UserID) (models.Profile, error) {
	p, err := s.profiles.Find(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return s.defaultProfile(userID), nil
	}
	if err != nil {
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payout profile")
	}
	return p, nil
}

func (s *Service) defaultProfile(userID id.UserID) models.Profile {
	user := s.defaultUser
	user.IndividualTaxIDNeededCountries = append([]string(nil), s.defaultUser.IndividualTaxIDNeededCountries...)
	return models.Profile{UserID: userID, User: user, PayoutMethod: s.defaultPayout}
}

// profileAfterEdit records a newly entered tax ID on the profile so its
// input switches to the hidden placeholder.
func (s *Service) profileAfterEdit(ctx context.Context, userID id.UserID, patch models.Patch) (models.Profile, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	for _, f := range []models.FieldName{models.FieldIndividualTaxID, models.FieldBusinessTaxID} {
		v, ok := patch[f].(string)
		if !ok || v == "" {
			continue
		}
		profile, err = s.profiles.MarkTaxIDEntered(ctx, profile, f)
		if err != nil {
			return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payout profile")
		}
	}
	return profile, nil
}

func (s *Service) emit(ctx context.Context, userID id.UserID, action audit.Action, fields []models.FieldName) {
	if s.auditor == nil {
		return
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	ua := requestcontext.UserAgent(ctx)
	event := audit.Event{
		Timestamp:         requestcontext.Now(ctx),
		UserID:            userID,
		Action:            action,
		Fields:            names,
		RequestID:         requestcontext.RequestID(ctx),
		DeviceFingerprint: s.devices.ComputeFingerprint(ua),
	}
	if ua != "" {
		event.Device = device.ParseUserAgent(ua)
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"user_id", userID.String(),
			"action", string(action),
			"error", err,
			"request_id", event.RequestID,
		)
	}
}

func (s *Service) editError(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "record was modified concurrently, retry the edit")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "edit timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store edit")
	}
}

func auditAction(e edit.Edit, patch models.Patch) audit.Action {
	switch {
	case e.Action == edit.ActionCopyBusinessAddress:
		return audit.ActionAddressCopied
	case e.Field == models.FieldIsBusiness:
		return audit.ActionAccountTypeChanged
	}
	if _, ok := patch[models.FieldUpdatedCountryCode]; ok {
		return audit.ActionCountryChangeRequested
	}
	return audit.ActionFieldUpdated
}

func redactPatch(p models.Patch) models.Patch {
	out := make(models.Patch, len(p))
	for f, v := range p {
		if f.IsSensitive() {
			continue
		}
		out[f] = v
	}
	return out
}
