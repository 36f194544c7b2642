package uow

import (
	"context"

	"ilmfund-backend/internal/domain/application"
	"ilmfund-backend/internal/domain/message"
	"ilmfund-backend/internal/domain/student"
)

type Repos struct {
	Students     student.Repository
	Applications application.Repository
	Messages     message.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.Application) error) error
}
