package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/staff"
)

func CreateSchool(t *testing.T, repo school.Repository, name, email string, createdAt ...time.Time) school.School {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sch := school.School{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: email,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	}
	sch, err := repo.CreateSchool(context.Background(), sch)
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreateMember(t *testing.T, repo staff.Repository, schoolID, name, email, role string, pwd ...string) staff.Member {
	t.Helper()
	tstamp := time.Now().UTC()
	m := staff.Member{
		ID:        uuid.New().String(),
		SchoolID:  schoolID,
		Name:      name,
		Email:     email,
		Role:      role,
		InvitedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if len(pwd) > 0 && pwd[0] != "" {
		if err := m.SetPassword(pwd[0]); err != nil {
			t.Fatalf("CreateMember() failed: %v", err)
		}
		m.JoinedAt = tstamp
	}
	m, err := repo.CreateMember(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateMember() failed: %v", err)
	}
	return m
}
