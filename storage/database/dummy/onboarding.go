package dummydb

import (
	"context"
	"time"

	"github.com/shulehub/shule/core/onboarding"
)

type onboardingRepository struct {
	db       *onboardingTable
	schoolDB *schoolTable
}

var _ onboarding.Repository = (*onboardingRepository)(nil) // interface compliance check

func NewOnboardingRepository(db *DB) *onboardingRepository {
	return &onboardingRepository{db: db.onboarding, schoolDB: db.school}
}

func (repo *onboardingRepository) GetSchoolStatus(ctx context.Context, schoolID string) (onboarding.Status, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if st, ok := repo.db.table[schoolID]; ok {
		return *st, nil
	}
	return onboarding.Status{}, nil // no row yet: nothing done
}

func (repo *onboardingRepository) ApplyStatusPatch(ctx context.Context, schoolID string, patch onboarding.Patch) (onboarding.Status, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st, ok := repo.db.table[schoolID]
	if !ok {
		st = &onboarding.Status{}
		repo.db.table[schoolID] = st
	}
	*st = st.Merge(patch)
	return *st, nil
}

func (repo *onboardingRepository) MarkSchoolOnboarded(ctx context.Context, schoolID string) error {
	repo.db.Lock()
	st, ok := repo.db.table[schoolID]
	if !ok {
		st = &onboarding.Status{}
		repo.db.table[schoolID] = st
	}
	st.OnboardingCompleted = true
	repo.db.Unlock()

	repo.schoolDB.Lock()
	defer repo.schoolDB.Unlock()
	if sch, ok := repo.schoolDB.table[schoolID]; ok {
		now := time.Now().UTC()
		sch.OnboardedAt = now
		sch.UpdatedAt = now
	}
	return nil
}

func (repo *onboardingRepository) QueryIncompleteStatuses(ctx context.Context) ([]onboarding.SchoolStatus, error) {
	repo.schoolDB.RLock()
	defer repo.schoolDB.RUnlock()
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats []onboarding.SchoolStatus
	for id := range repo.schoolDB.table {
		var st onboarding.Status
		if rec, ok := repo.db.table[id]; ok {
			st = *rec
		}
		if st.OnboardingCompleted {
			continue
		}
		stats = append(stats, onboarding.SchoolStatus{SchoolID: id, Status: st})
	}
	return stats, nil
}
