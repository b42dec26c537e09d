package syncstore

import (
	"context"

	"go-attendance/internal/attendance"
	"go-attendance/internal/scope"
	"go-attendance/internal/user"
	"go-attendance/internal/worker"
)

// ServiceClient adapts the domain services into the session's Fetcher
// and Writer, for in-process consumers of the working set. The actor is
// fixed at construction; every fetch and write is scoped to it.
type ServiceClient struct {
	actor       scope.Actor
	attendances attendance.Service
	workers     worker.Service
	users       user.Service
}

func NewServiceClient(
	actor scope.Actor,
	attendances attendance.Service,
	workers worker.Service,
	users user.Service,
) *ServiceClient {
	return &ServiceClient{
		actor:       actor,
		attendances: attendances,
		workers:     workers,
		users:       users,
	}
}

func (c *ServiceClient) FetchRecords(ctx context.Context, month, year int) ([]attendance.RecordResponse, error) {
	return c.attendances.ListForPeriod(ctx, c.actor, month, year)
}

func (c *ServiceClient) FetchWorkers(ctx context.Context) ([]worker.WorkerResponse, error) {
	return c.workers.GetAll(ctx, c.actor)
}

func (c *ServiceClient) FetchUsers(ctx context.Context) ([]user.UserResponse, error) {
	return c.users.GetAll(ctx)
}

func (c *ServiceClient) SaveRecord(ctx context.Context, req attendance.SaveRecordRequest) (attendance.RecordResponse, error) {
	return c.attendances.Save(ctx, c.actor, req)
}

func (c *ServiceClient) ApproveRecord(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error) {
	return c.attendances.Approve(ctx, c.actor, key)
}

func (c *ServiceClient) RejectRecord(ctx context.Context, key attendance.RecordKey, reason string) (attendance.RecordResponse, error) {
	return c.attendances.Reject(ctx, c.actor, key, reason)
}

func (c *ServiceClient) ReopenRecord(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error) {
	return c.attendances.Reopen(ctx, c.actor, key)
}
