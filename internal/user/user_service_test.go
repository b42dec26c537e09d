package user_test

import (
	"context"
	"database/sql"
	"testing"

	"go-attendance/internal/area"
	"go-attendance/internal/audit"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/scope"
	"go-attendance/internal/user"
	usererrors "go-attendance/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*user.User
	areas map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*user.User),
		areas: make(map[string]bool),
	}
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) AreaExists(ctx context.Context, areaID string) (bool, error) {
	return f.areas[areaID], nil
}

type fakeAreaRepo struct {
	areas []area.Area
}

func (f *fakeAreaRepo) WithTx(tx *sql.Tx) area.Repository                   { return f }
func (f *fakeAreaRepo) Create(ctx context.Context, a *area.Area) error      { return nil }
func (f *fakeAreaRepo) FindAll(ctx context.Context) ([]area.Area, error)    { return f.areas, nil }
func (f *fakeAreaRepo) Update(ctx context.Context, a *area.Area) error      { return nil }
func (f *fakeAreaRepo) Delete(ctx context.Context, id string) error         { return nil }
func (f *fakeAreaRepo) CountWorkers(ctx context.Context, areaID string) (int64, error) {
	return 0, nil
}
func (f *fakeAreaRepo) FindByID(ctx context.Context, id string) (*area.Area, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAreaRepo) CountByName(ctx context.Context, name string, excludeID *string) (int64, error) {
	return 0, nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepo) Search(ctx context.Context, q audit.Query) ([]audit.Entry, error) {
	return f.entries, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.created, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error            { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *fakeUserRepo
	areaRepo  *fakeAreaRepo
	auditRepo *fakeAuditRepo
	outbox    *fakeOutbox
	service   user.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeUserRepo()
	areaRepo := &fakeAreaRepo{}
	auditRepo := &fakeAuditRepo{}
	outbox := &fakeOutbox{}
	return &serviceDeps{
		sqlMock:   sqlMock,
		repo:      repo,
		areaRepo:  areaRepo,
		auditRepo: auditRepo,
		outbox:    outbox,
		service:   user.NewService(db, repo, areaRepo, auditRepo, outbox),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func adminActor() scope.Actor {
	return scope.Actor{UserID: uuid.New().String(), Role: scope.RoleAdmin, Scope: scope.Set{All: true}}
}

func seedUser(deps *serviceDeps, role string, areaID string, active bool) *user.User {
	u := &user.User{
		ID:       uuid.New(),
		Email:    uuid.New().String() + "@example.com",
		Name:     "Test User",
		Role:     role,
		AreaID:   areaID,
		IsActive: active,
	}
	deps.repo.users[u.ID.String()] = u
	return u
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("role change", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, adminActor(), u.ID.String(), user.UpdateUserRequest{
			Name: "Promoted User",
			Role: "HR",
		})

		assert.NoError(t, err)
		assert.Equal(t, "HR", resp.Role)
		assert.Equal(t, "Promoted User", resp.Name)
		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Len(t, deps.outbox.created, 1)
	})

	t.Run("unknown role refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)

		_, err := deps.service.Update(ctx, adminActor(), u.ID.String(), user.UpdateUserRequest{
			Name: "X", Role: "SUPERINTENDENT",
		})
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("audit snapshot never carries the password hash", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)
		u.Password = "$2a$10$secret"
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Update(ctx, adminActor(), u.ID.String(), user.UpdateUserRequest{
			Name: "X", Role: "HR",
		})

		assert.NoError(t, err)
		if assert.Len(t, deps.auditRepo.entries, 1) {
			assert.NotContains(t, string(deps.auditRepo.entries[0].Payload), "secret")
		}
	})
}

func TestUserService_SetAreas(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces primary and extra areas", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)
		primary := uuid.New().String()
		extra := uuid.New().String()
		deps.repo.areas[primary] = true
		deps.repo.areas[extra] = true
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SetAreas(ctx, adminActor(), u.ID.String(), user.SetAreasRequest{
			AreaID:     primary,
			ExtraAreas: []string{extra},
		})

		assert.NoError(t, err)
		assert.Equal(t, primary, resp.AreaID)
		assert.Equal(t, []string{extra}, resp.ExtraAreas)
	})

	t.Run("ALL sentinel needs no area row", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "GENERAL_SUPERVISOR", "", true)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SetAreas(ctx, adminActor(), u.ID.String(), user.SetAreasRequest{
			AreaID: scope.AreaAll,
		})

		assert.NoError(t, err)
		assert.Equal(t, scope.AreaAll, resp.AreaID)
	})

	t.Run("unknown area refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SetAreas(ctx, adminActor(), u.ID.String(), user.SetAreasRequest{
			AreaID: uuid.New().String(),
		})
		assert.ErrorIs(t, err, usererrors.ErrInvalidAreaAssignment)
	})
}

func TestUserService_SetActive(t *testing.T) {
	ctx := context.Background()

	deps := setupServiceTest(t)
	u := seedUser(deps, "SUPERVISOR", "", false)
	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.SetActive(ctx, adminActor(), u.ID.String(), true)

	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.True(t, deps.repo.users[u.ID.String()].IsActive)

	expectTx(t, deps.sqlMock, true)
	resp, err = deps.service.SetActive(ctx, adminActor(), u.ID.String(), false)
	assert.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		u := seedUser(deps, "SUPERVISOR", "", true)
		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, adminActor(), u.ID.String())

		assert.NoError(t, err)
		assert.NotContains(t, deps.repo.users, u.ID.String())
		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Equal(t, audit.ActionDelete, deps.auditRepo.entries[0].Action)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, adminActor(), "not-a-uuid")
		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_UnsupervisedAreas(t *testing.T) {
	ctx := context.Background()

	deps := setupServiceTest(t)
	covered := area.Area{ID: uuid.New(), Name: "North District"}
	uncovered := area.Area{ID: uuid.New(), Name: "South District"}
	deps.areaRepo.areas = []area.Area{covered, uncovered}

	// Active supervisor covers the first area; an inactive one and an HR
	// assignment must not count as coverage.
	seedUser(deps, "SUPERVISOR", covered.ID.String(), true)
	seedUser(deps, "SUPERVISOR", uncovered.ID.String(), false)
	seedUser(deps, "HR", uncovered.ID.String(), true)

	t.Run("full scope", func(t *testing.T) {
		resp, err := deps.service.UnsupervisedAreas(ctx, adminActor())
		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, uncovered.ID.String(), resp[0].ID)
			assert.Equal(t, "South District", resp[0].Name)
		}
	})

	t.Run("scope narrows the answer", func(t *testing.T) {
		actor := scope.Actor{
			Role:  scope.RoleGeneralSupervisor,
			Scope: scope.Set{AreaIDs: []string{covered.ID.String()}},
		}
		resp, err := deps.service.UnsupervisedAreas(ctx, actor)
		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}
