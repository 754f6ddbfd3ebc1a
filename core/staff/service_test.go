package staff

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/school"
)

type fakeRepo struct {
	mu      sync.Mutex
	members map[string]Member // keyed by id
}

func newFakeRepo() *fakeRepo { return &fakeRepo{members: make(map[string]Member)} }

func (r *fakeRepo) CheckStaffEmailUniqueness(ctx context.Context, schoolID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.SchoolID == schoolID && m.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateMember(ctx context.Context, m Member) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
	return m, nil
}

func (r *fakeRepo) GetMemberByID(ctx context.Context, id string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		return m, nil
	}
	return Member{}, ErrNotFound
}

func (r *fakeRepo) GetMemberByEmail(ctx context.Context, schoolID, email string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.SchoolID == schoolID && m.Email == email {
			return m, nil
		}
	}
	return Member{}, ErrNotFound
}

func (r *fakeRepo) QuerySchoolMembers(ctx context.Context, schoolID string) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ms []Member
	for _, m := range r.members {
		if m.SchoolID == schoolID {
			ms = append(ms, m)
		}
	}
	return ms, nil
}

func (r *fakeRepo) UpdateMember(ctx context.Context, m Member) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; !ok {
		return Member{}, ErrNotFound
	}
	r.members[m.ID] = m
	return m, nil
}

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:                   "Shule",
		SecretKey:                 "poq5-wer$#@",
		FrontendBaseURL:           "https://app.shule.test",
		InvitationExpirationDelta: 72 * time.Hour,
	}
}

func TestServiceInvite(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer, testConfig())
	sch := school.School{ID: "sch1", Name: "Hilltop Academy"}

	data := NewInvites{Invites: []NewInvite{
		{Name: "Awa Traore", Email: "awa@hilltop.ac", Role: RoleProfessor},
		{Name: "Ben Okoro", Email: "ben@hilltop.ac", Role: RoleAdmin},
	}}

	members, patch, err := svc.Invite(ctx, sch, data)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.True(t, patch.AdminStaffInvited)
	assert.True(t, patch.ProfessorsInvited)
	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[0].TextContent, svc.conf.FrontendBaseURL)

	for _, m := range members {
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.InvitedAt.IsZero())
		assert.False(t, m.Joined())
	}

	// professors only
	repo2 := newFakeRepo()
	svc2 := NewService(repo2, &fakeMailer{}, testConfig())
	_, patch, err = svc2.Invite(ctx, sch, NewInvites{Invites: []NewInvite{
		{Name: "Awa Traore", Email: "awa@hilltop.ac", Role: RoleProfessor},
	}})
	require.NoError(t, err)
	assert.False(t, patch.AdminStaffInvited)
	assert.True(t, patch.ProfessorsInvited)

	// duplicate email rejected
	_, _, err = svc.Invite(ctx, sch, NewInvites{Invites: []NewInvite{
		{Name: "Awa T", Email: "awa@hilltop.ac", Role: RoleProfessor},
	}})
	require.Error(t, err)
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestServiceAccept(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	conf := testConfig()
	svc := NewService(repo, mailer, conf)
	sch := school.School{ID: "sch1", Name: "Hilltop Academy"}

	members, _, err := svc.Invite(ctx, sch, NewInvites{Invites: []NewInvite{
		{Name: "Awa Traore", Email: "awa@hilltop.ac", Role: RoleProfessor},
	}})
	require.NoError(t, err)
	token, err := MakeInviteToken(conf, members[0])
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		m, err := svc.Accept(ctx, AcceptInvitation{Token: token, Password: "S3cur3!pass", PasswordConfirm: "S3cur3!pass"})
		require.NoError(t, err)
		assert.True(t, m.Joined())
		assert.NoError(t, m.CheckPassword("S3cur3!pass"))
	})

	t.Run("already accepted", func(t *testing.T) {
		_, err := svc.Accept(ctx, AcceptInvitation{Token: token, Password: "S3cur3!pass", PasswordConfirm: "S3cur3!pass"})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := svc.Accept(ctx, AcceptInvitation{Token: "nope", Password: "S3cur3!pass", PasswordConfirm: "S3cur3!pass"})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("similar password", func(t *testing.T) {
		members, _, err := svc.Invite(ctx, sch, NewInvites{Invites: []NewInvite{
			{Name: "Chidi Eze", Email: "chidi@hilltop.ac", Role: RoleAdmin},
		}})
		require.NoError(t, err)
		token, err := MakeInviteToken(conf, members[0])
		require.NoError(t, err)

		_, err = svc.Accept(ctx, AcceptInvitation{Token: token, Password: "chidi@hilltop.ac", PasswordConfirm: "chidi@hilltop.ac"})
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}
