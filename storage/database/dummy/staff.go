package dummydb

import (
	"context"
	"sort"

	"github.com/shulehub/shule/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) CheckStaffEmailUniqueness(ctx context.Context, schoolID, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, m := range repo.db.table {
		if m.SchoolID == schoolID && m.Email == email {
			return staff.ErrEmailExists
		}
	}
	return nil
}

func (repo *staffRepository) CreateMember(ctx context.Context, m staff.Member) (staff.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *staffRepository) GetMemberByID(ctx context.Context, id string) (staff.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if m, ok := repo.db.table[id]; ok {
		return *m, nil
	}
	return staff.Member{}, staff.ErrNotFound
}

func (repo *staffRepository) GetMemberByEmail(ctx context.Context, schoolID, email string) (staff.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, m := range repo.db.table {
		if m.SchoolID == schoolID && m.Email == email {
			return *m, nil
		}
	}
	return staff.Member{}, staff.ErrNotFound
}

func (repo *staffRepository) QuerySchoolMembers(ctx context.Context, schoolID string) ([]staff.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	var members []staff.Member
	for _, m := range repo.db.table {
		if m.SchoolID == schoolID {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].InvitedAt.Before(members[j].InvitedAt) })
	return members, nil
}

func (repo *staffRepository) UpdateMember(ctx context.Context, m staff.Member) (staff.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	if _, ok := repo.db.table[m.ID]; !ok {
		return staff.Member{}, staff.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}
