package area_test

import (
	"context"
	"database/sql"
	"testing"

	"go-attendance/internal/area"
	areaerrors "go-attendance/internal/area/errors"
	"go-attendance/internal/audit"
	"go-attendance/internal/scope"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	areas       map[string]*area.Area
	workerCount map[string]int64

	deleted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		areas:       make(map[string]*area.Area),
		workerCount: make(map[string]int64),
	}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) area.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, a *area.Area) error {
	f.areas[a.ID.String()] = a
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]area.Area, error) {
	var out []area.Area
	for _, a := range f.areas {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*area.Area, error) {
	a, ok := f.areas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) CountByName(ctx context.Context, name string, excludeID *string) (int64, error) {
	var count int64
	for id, a := range f.areas {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if a.Name == name {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountWorkers(ctx context.Context, areaID string) (int64, error) {
	return f.workerCount[areaID], nil
}

func (f *fakeRepo) Update(ctx context.Context, a *area.Area) error {
	f.areas[a.ID.String()] = a
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.areas, id)
	f.deleted = append(f.deleted, id)
	return nil
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

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *fakeRepo
	auditRepo *fakeAuditRepo
	service   area.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeRepo()
	auditRepo := &fakeAuditRepo{}
	return &serviceDeps{
		sqlMock:   sqlMock,
		repo:      repo,
		auditRepo: auditRepo,
		service:   area.NewService(db, repo, auditRepo),
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

func seedArea(deps *serviceDeps, name string) *area.Area {
	a := &area.Area{ID: uuid.New(), Name: name}
	deps.repo.areas[a.ID.String()] = a
	return a
}

func TestAreaService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, adminActor(), area.CreateAreaRequest{Name: "North District"})

		assert.NoError(t, err)
		assert.Equal(t, "North District", resp.Name)
		assert.NotEmpty(t, resp.ID)
		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Equal(t, audit.ActionInsert, deps.auditRepo.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedArea(deps, "North District")
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, adminActor(), area.CreateAreaRequest{Name: "North District"})

		assert.ErrorIs(t, err, areaerrors.ErrDuplicateAreaName)
		assert.Empty(t, deps.auditRepo.entries)
	})
}

func TestAreaService_GetAll(t *testing.T) {
	ctx := context.Background()

	deps := setupServiceTest(t)
	north := seedArea(deps, "North District")
	seedArea(deps, "South District")

	t.Run("full scope sees every area", func(t *testing.T) {
		resp, err := deps.service.GetAll(ctx, adminActor())
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("limited scope sees only assigned areas", func(t *testing.T) {
		actor := scope.Actor{
			Role:  scope.RoleSupervisor,
			Scope: scope.Set{AreaIDs: []string{north.ID.String()}},
		}
		resp, err := deps.service.GetAll(ctx, actor)
		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, "North District", resp[0].Name)
		}
	})

	t.Run("empty scope sees nothing", func(t *testing.T) {
		actor := scope.Actor{Role: scope.RoleSupervisor}
		resp, err := deps.service.GetAll(ctx, actor)
		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestAreaService_GetByID(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	a := seedArea(deps, "North District")

	resp, err := deps.service.GetByID(ctx, a.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, a.Name, resp.Name)

	_, err = deps.service.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, areaerrors.ErrAreaNotFound)

	_, err = deps.service.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, areaerrors.ErrInvalidAreaID)
}

func TestAreaService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		deps := setupServiceTest(t)
		a := seedArea(deps, "North District")
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, adminActor(), a.ID.String(), area.UpdateAreaRequest{Name: "Northern District"})

		assert.NoError(t, err)
		assert.Equal(t, "Northern District", resp.Name)
	})

	t.Run("rename onto another area's name", func(t *testing.T) {
		deps := setupServiceTest(t)
		a := seedArea(deps, "North District")
		seedArea(deps, "South District")
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, adminActor(), a.ID.String(), area.UpdateAreaRequest{Name: "South District"})

		assert.ErrorIs(t, err, areaerrors.ErrDuplicateAreaName)
	})

	t.Run("keeping the current name is not a conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		a := seedArea(deps, "North District")
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, adminActor(), a.ID.String(), area.UpdateAreaRequest{Name: "North District"})

		assert.NoError(t, err)
		assert.Equal(t, "North District", resp.Name)
	})
}

func TestAreaService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		a := seedArea(deps, "North District")
		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, adminActor(), a.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, []string{a.ID.String()}, deps.repo.deleted)
		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Equal(t, audit.ActionDelete, deps.auditRepo.entries[0].Action)
	})

	t.Run("blocked while workers are assigned", func(t *testing.T) {
		deps := setupServiceTest(t)
		a := seedArea(deps, "North District")
		deps.repo.workerCount[a.ID.String()] = 3
		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, adminActor(), a.ID.String())

		assert.ErrorIs(t, err, areaerrors.ErrAreaHasWorkers)
		assert.Empty(t, deps.repo.deleted)
	})

	t.Run("missing area", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, adminActor(), uuid.New().String())
		assert.ErrorIs(t, err, areaerrors.ErrAreaNotFound)
	})
}
