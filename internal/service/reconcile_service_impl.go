package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/alexanderramin/shiftlog/internal/solver"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultSolveTimeout bounds a single solve when the caller configures none.
const DefaultSolveTimeout = 300 * time.Millisecond

// ReconcileOptions tunes the solver and the orchestration timeout.
type ReconcileOptions struct {
	Solver  solver.Options
	Timeout time.Duration
}

// ReconcileRepos groups the stores the reconciliation service reads from.
type ReconcileRepos struct {
	Sites       repository.SiteRepo
	Equipment   repository.EquipmentRepo
	Activities  repository.ActivityRepo
	Totals      repository.TotalsRepo
	Assignments repository.AssignmentRepo
	Factors     repository.FactorRepo
}

type runFunc func(items []domain.EquipmentItem, assignments map[string]string, configs map[string]domain.GroupConfig, reconciled solver.Tonnes, opts solver.Options) (*solver.SolveResult, error)

type reconcileService struct {
	repos    ReconcileRepos
	uow      db.UnitOfWork
	opts     ReconcileOptions
	locks    *keyedMutex
	observer UseCaseObserver
	run      runFunc
	now      func() time.Time
}

func NewReconcileService(repos ReconcileRepos, uow db.UnitOfWork, opts ReconcileOptions, observers ...UseCaseObserver) ReconcileService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSolveTimeout
	}
	return &reconcileService{
		repos:    repos,
		uow:      uow,
		opts:     opts,
		locks:    newKeyedMutex(),
		observer: useCaseObserverOrNoop(observers),
		run:      solver.Run,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *reconcileService) Solve(ctx context.Context, req app.SolveRequest) (resp *app.SolveResponse, err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, startedAt, req, resp, err) }()

	resp, plan, err := s.solve(ctx, req)
	if err == nil && req.Save {
		err = s.persist(ctx, plan)
	}
	if err != nil {
		return nil, classifySolveError(err)
	}
	resp.Saved = req.Save
	return resp, nil
}

// SolveAll runs the loader and truck solves concurrently. req.Class is
// ignored; assignment overrides for equipment of the other class are
// skipped by each solve. With Save, both classes are persisted in one
// transaction once both have solved, so either both are saved or neither.
func (s *reconcileService) SolveAll(ctx context.Context, req app.SolveRequest) (*app.SolveAllResponse, error) {
	startedAt := time.Now().UTC()
	n := len(domain.AllClasses)
	reqs := make([]app.SolveRequest, n)
	resps := make([]*app.SolveResponse, n)
	plans := make([]*savePlan, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	for i, class := range domain.AllClasses {
		reqs[i] = req
		reqs[i].Class = class
		i := i
		g.Go(func() error {
			resps[i], plans[i], errs[i] = s.solve(gctx, reqs[i])
			return errs[i]
		})
	}
	err := g.Wait()
	if err == nil && req.Save {
		err = s.persist(ctx, plans...)
	}
	if err != nil {
		err = classifySolveError(err)
	}

	for i := range reqs {
		classErr := err
		if errs[i] != nil {
			classErr = classifySolveError(errs[i])
		}
		resp := resps[i]
		if classErr != nil {
			resp = nil
		}
		s.observe(ctx, startedAt, reqs[i], resp, classErr)
	}
	if err != nil {
		return nil, err
	}

	out := &app.SolveAllResponse{}
	for i, class := range domain.AllClasses {
		resps[i].Saved = req.Save
		if class == domain.ClassLoader {
			out.Loader = resps[i]
		} else {
			out.Truck = resps[i]
		}
	}
	return out, nil
}

func (s *reconcileService) observe(ctx context.Context, startedAt time.Time, req app.SolveRequest, resp *app.SolveResponse, err error) {
	fields := map[string]any{
		"site":  req.Site,
		"month": req.Month,
		"class": string(req.Class),
		"save":  req.Save,
	}
	if resp != nil {
		fields["groups"] = len(resp.Result.Groups)
		fields["converged"] = resp.Result.Converged
		if resp.Result.Notes.Warning != "" {
			fields["warning"] = resp.Result.Notes.Warning
		}
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "solve",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// savePlan is everything one solve writes when it is saved.
type savePlan struct {
	siteID      string
	siteCode    string
	class       domain.EquipmentClass
	month       domain.Month
	result      *solver.SolveResult
	configs     map[string]domain.GroupConfig
	storedCodes map[string]bool
	assignments map[string]string
}

// solve loads inputs and fits factors without writing anything. The
// returned plan is what persist would store.
func (s *reconcileService) solve(ctx context.Context, req app.SolveRequest) (*app.SolveResponse, *savePlan, error) {
	month, err := domain.ParseMonth(strings.TrimSpace(req.Month))
	if err != nil {
		return nil, nil, &app.SolveError{Code: app.SolveErrInvalidRequest, Message: err.Error(), Err: err}
	}
	if !domain.ValidClasses[string(req.Class)] {
		return nil, nil, &app.SolveError{
			Code:    app.SolveErrInvalidRequest,
			Message: fmt.Sprintf("invalid equipment class %q (expected loader or truck)", req.Class),
		}
	}

	site, err := s.resolveSite(ctx, req.Site)
	if err != nil {
		return nil, nil, err
	}

	totals, err := s.repos.Totals.Get(ctx, site.ID, month)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &app.SolveError{
			Code:    app.SolveErrNoTotals,
			Message: fmt.Sprintf("no reconciled totals for %s in %s", site.Code, month),
			Err:     err,
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if req.Save && totals.Locked {
		return nil, nil, totalsLockedError(site.Code, month)
	}

	stored, source, err := s.loadConfigs(ctx, site.ID, req.Class, month)
	if err != nil {
		return nil, nil, err
	}
	storedAssignments, err := s.repos.Assignments.Map(ctx, site.ID, req.Class)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := s.classAssignments(ctx, site.ID, req.Class, req.Assignments)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repos.Activities.AggregateUnits(ctx, site.ID, req.Class, month)
	if err != nil {
		return nil, nil, err
	}

	configs := mergeConfigs(stored, req.Configs)
	assignments := mergeAssignments(storedAssignments, overrides)
	reconciled := solver.Tonnes{Prod: totals.ProdTonnes, Dev: totals.DevTonnes}

	result, err := s.runWithTimeout(ctx, items, assignments, configs, reconciled)
	if err != nil {
		return nil, nil, err
	}

	resp := &app.SolveResponse{
		Site:         site,
		Month:        month,
		Class:        req.Class,
		Result:       result,
		Diagnostics:  solver.Diagnose(result),
		ConfigSource: source,
		Assignments:  assignments,
	}
	storedCodes := make(map[string]bool, len(stored))
	for _, rec := range stored {
		storedCodes[rec.Code] = true
	}
	plan := &savePlan{
		siteID:      site.ID,
		siteCode:    site.Code,
		class:       req.Class,
		month:       month,
		result:      result,
		configs:     configs,
		storedCodes: storedCodes,
		assignments: assignments,
	}
	return resp, plan, nil
}

func totalsLockedError(siteCode string, month domain.Month) error {
	return &app.SolveError{
		Code:    app.SolveErrTotalsLocked,
		Message: fmt.Sprintf("totals for %s in %s are locked; recalculate without saving", siteCode, month),
	}
}

func (s *reconcileService) resolveSite(ctx context.Context, ref string) (*domain.Site, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &app.SolveError{Code: app.SolveErrInvalidRequest, Message: "site is required"}
	}
	site, err := s.repos.Sites.GetByCode(ctx, strings.ToUpper(ref))
	if errors.Is(err, repository.ErrNotFound) {
		site, err = s.repos.Sites.GetByID(ctx, ref)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &app.SolveError{
			Code:    app.SolveErrUnknownSite,
			Message: fmt.Sprintf("unknown site %q", ref),
			Err:     err,
		}
	}
	return site, err
}

// loadConfigs returns the month's stored configs, or those of the most
// recent earlier month when the month has none yet.
func (s *reconcileService) loadConfigs(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.FactorRecord, domain.Month, error) {
	records, err := s.repos.Factors.ListByMonth(ctx, siteID, class, month)
	if err != nil {
		return nil, "", err
	}
	if len(records) > 0 {
		return records, month, nil
	}
	prev, err := s.repos.Factors.LatestMonthBefore(ctx, siteID, class, month)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	records, err = s.repos.Factors.ListByMonth(ctx, siteID, class, prev)
	if err != nil {
		return nil, "", err
	}
	return records, prev, nil
}

// classAssignments keeps the overrides that name equipment of class.
// Unregistered equipment is rejected.
func (s *reconcileService) classAssignments(ctx context.Context, siteID string, class domain.EquipmentClass, overrides map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(overrides))
	for _, id := range sortedKeys(overrides) {
		e, err := s.repos.Equipment.Get(ctx, siteID, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &app.SolveError{
				Code:    app.SolveErrInvalidRequest,
				Message: fmt.Sprintf("assignment names unknown equipment %q", id),
				Err:     err,
			}
		}
		if err != nil {
			return nil, err
		}
		if e.Class == class {
			out[id] = overrides[id]
		}
	}
	return out, nil
}

type solveOutcome struct {
	result *solver.SolveResult
	err    error
}

func (s *reconcileService) runWithTimeout(ctx context.Context, items []domain.EquipmentItem, assignments map[string]string, configs map[string]domain.GroupConfig, reconciled solver.Tonnes) (*solver.SolveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	done := make(chan solveOutcome, 1)
	go func() {
		res, err := s.run(items, assignments, configs, reconciled, s.opts.Solver)
		done <- solveOutcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		if errors.Is(out.err, solver.ErrStructural) {
			return nil, &app.SolveError{Code: app.SolveErrStructural, Message: out.err.Error(), Err: out.err}
		}
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// persist writes every plan in a single transaction. Saves for the same
// site, class and month are serialized, and the totals lock is checked
// again inside the transaction.
func (s *reconcileService) persist(ctx context.Context, plans ...*savePlan) error {
	for _, p := range plans {
		unlock := s.locks.Lock(solveKey(p.siteID, p.class, p.month))
		defer unlock()
	}

	now := s.now()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		totals := repository.NewSQLiteTotalsRepo(tx)
		for _, p := range plans {
			t, err := totals.Get(ctx, p.siteID, p.month)
			if err != nil {
				return fmt.Errorf("rechecking totals: %w", err)
			}
			if t.Locked {
				return totalsLockedError(p.siteCode, p.month)
			}
			if err := writePlan(ctx, tx, p, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePlan stores assignments, then configs with factors and one history
// entry per solved group.
func writePlan(ctx context.Context, tx db.DBTX, p *savePlan, now time.Time) error {
	factors := repository.NewSQLiteFactorRepo(tx)
	assignRepo := repository.NewSQLiteAssignmentRepo(tx)
	history := repository.NewSQLiteHistoryRepo(tx)

	for _, id := range sortedKeys(p.assignments) {
		if err := assignRepo.Upsert(ctx, &domain.Assignment{
			SiteID:      p.siteID,
			Class:       p.class,
			EquipmentID: id,
			ConfigCode:  p.assignments[id],
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("saving assignment %s: %w", id, err)
		}
	}

	solved := make(map[string]bool, len(p.result.Groups))
	for _, g := range p.result.Groups {
		solved[g.Code] = true
		cfg := g.Config
		cfg.Code = g.Code
		factor := g.Factor
		if err := factors.Upsert(ctx, &domain.FactorRecord{
			SiteID:      p.siteID,
			Class:       p.class,
			Month:       p.month,
			GroupConfig: cfg,
			Factor:      &factor,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("saving factor %s: %w", g.Code, err)
		}
		if err := history.Append(ctx, &domain.FactorHistoryEntry{
			ID:               uuid.New().String(),
			SiteID:           p.siteID,
			Class:            p.class,
			Month:            p.month,
			Code:             g.Code,
			Factor:           g.Factor,
			ProductionUnits:  g.ProductionUnits,
			DevelopmentUnits: g.DevelopmentUnits,
			Locked:           g.Locked,
			SolvedAt:         now,
		}); err != nil {
			return fmt.Errorf("saving history for %s: %w", g.Code, err)
		}
	}

	// Stored configs that produced no group this month are kept so they
	// carry forward, but without a factor.
	for _, code := range sortedKeys(p.configs) {
		if solved[code] || !p.storedCodes[code] {
			continue
		}
		if err := factors.Upsert(ctx, &domain.FactorRecord{
			SiteID:      p.siteID,
			Class:       p.class,
			Month:       p.month,
			GroupConfig: p.configs[code],
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("saving config %s: %w", code, err)
		}
	}
	return nil
}

func classifySolveError(err error) error {
	var se *app.SolveError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &app.SolveError{Code: app.SolveErrTimeout, Message: "solve did not finish in time", Err: err}
	}
	return &app.SolveError{Code: app.SolveErrInternal, Message: err.Error(), Err: err}
}
