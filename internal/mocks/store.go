// Package mocks provides testify mocks for the store and service
// interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

// UserStore mocks model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

// DebtStore mocks model.DebtStore.
type DebtStore struct {
	mock.Mock
}

func (m *DebtStore) GetByID(ctx context.Context, id string) (model.Debt, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Debt), args.Error(1)
}

func (m *DebtStore) ListByOwner(ctx context.Context, ownerUsername string) ([]model.Debt, error) {
	args := m.Called(ctx, ownerUsername)
	return args.Get(0).([]model.Debt), args.Error(1)
}

func (m *DebtStore) Create(ctx context.Context, debt model.Debt) (model.Debt, error) {
	args := m.Called(ctx, debt)
	return args.Get(0).(model.Debt), args.Error(1)
}

func (m *DebtStore) Update(ctx context.Context, debt model.Debt) (model.Debt, error) {
	args := m.Called(ctx, debt)
	return args.Get(0).(model.Debt), args.Error(1)
}

func (m *DebtStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
