package onboarding

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

type (
	Repository interface {
		// GetSchoolStatus returns the school's raw status flags; an absent row
		// is an all-false record, not an error.
		GetSchoolStatus(ctx context.Context, schoolID string) (Status, error)
		// ApplyStatusPatch upserts the patch's true flags onto the school's
		// row. Flags are never reverted.
		ApplyStatusPatch(ctx context.Context, schoolID string, patch Patch) (Status, error)
		MarkSchoolOnboarded(ctx context.Context, schoolID string) error
		QueryIncompleteStatuses(ctx context.Context) ([]SchoolStatus, error)
	}

	// SchoolStatus is a status record joined with its school id.
	SchoolStatus struct {
		SchoolID string `json:"school_id" db:"school_id"`
		Status
	}

	// Service owns one workflow engine per school, backed by the repository.
	// All sessions of a school share the same serialized engine, so concurrent
	// reports resolve by last-write-wins merge.
	Service struct {
		repo   Repository
		logger core.Logger

		mu    sync.Mutex
		flows map[string]*Workflow
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		flows:  make(map[string]*Workflow),
	}
}

// Workflow returns the school's engine, constructing it on first use. A
// failed status fetch is logged as a warning and the engine starts degraded
// so the wizard remains usable; degraded engines are not cached, so the
// fetch is retried on the next access once the status source recovers.
func (svc *Service) Workflow(ctx context.Context, schoolID string) *Workflow {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if wf, ok := svc.flows[schoolID]; ok {
		return wf
	}
	wf, err := NewWorkflow(ctx, &schoolSource{repo: svc.repo, schoolID: schoolID})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("school %s: %v; starting onboarding degraded", schoolID, err), err)
		return wf
	}
	svc.flows[schoolID] = wf
	return wf
}

// Report persists the patch and reports the step's completion to the
// school's engine. This is the single funnel every step action goes through.
func (svc *Service) Report(ctx context.Context, schoolID string, step StepID, patch Patch) (*Workflow, error) {
	wf := svc.Workflow(ctx, schoolID)
	if !patch.IsZero() {
		if _, err := svc.repo.ApplyStatusPatch(ctx, schoolID, patch); err != nil {
			return wf, errors.Wrap(err, "persisting status patch")
		}
	}
	if err := wf.ReportStepCompletion(ctx, step, patch); err != nil {
		return wf, err
	}
	return wf, nil
}

// Finalize attempts to close the school's onboarding.
func (svc *Service) Finalize(ctx context.Context, schoolID string) (*Workflow, error) {
	wf := svc.Workflow(ctx, schoolID)
	if err := wf.Finalize(ctx); err != nil {
		return wf, err
	}
	return wf, nil
}

// QueryIncomplete lists schools that have not finalized onboarding, with
// their completion percentages recomputed.
func (svc *Service) QueryIncomplete(ctx context.Context) ([]SchoolStatus, error) {
	stats, err := svc.repo.QueryIncompleteStatuses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying incomplete statuses")
	}
	for i := range stats {
		stats[i].Status = stats[i].Status.WithProgress()
	}
	return stats, nil
}

// schoolSource adapts the repository to the engine's Source contract for a
// single school.
type schoolSource struct {
	repo     Repository
	schoolID string
}

var _ Source = (*schoolSource)(nil) // interface compliance check

func (s *schoolSource) FetchStatus(ctx context.Context) (Status, error) {
	return s.repo.GetSchoolStatus(ctx, s.schoolID)
}

func (s *schoolSource) PersistFinalize(ctx context.Context) error {
	return s.repo.MarkSchoolOnboarded(ctx, s.schoolID)
}
