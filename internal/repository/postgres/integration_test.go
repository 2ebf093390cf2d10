//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
	repo "github.com/debtkeeper/debtkeeper-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "debtkeeper_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/debtkeeper_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(username, email string) model.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "stored-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)

		saved, err := ur.Create(ctx, newUser("alice", "alice@example.com"))
		require.NoError(t, err)
		require.Equal(t, "alice", saved.Username)
		require.Empty(t, saved.ExternalID)

		byUsername, err := ur.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", byUsername.Email)

		byEmail, err := ur.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "alice", byEmail.Username)

		_, err = ur.GetByUsername(ctx, "nobody")
		require.ErrorIs(t, err, model.ErrNotFound)

		// duplicate username is a conflict
		_, err = ur.Create(ctx, newUser("alice", "other@example.com"))
		require.ErrorIs(t, err, model.ErrConflict)

		// link an external identity, then look it up
		byUsername.ExternalID = "ext-123"
		byUsername.ExternalProvider = "google"
		byUsername.EmailVerified = true
		byUsername.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		updated, err := ur.Update(ctx, byUsername)
		require.NoError(t, err)
		require.Equal(t, "ext-123", updated.ExternalID)

		byExternal, err := ur.GetByExternalID(ctx, "ext-123")
		require.NoError(t, err)
		require.Equal(t, "alice", byExternal.Username)
		require.True(t, byExternal.EmailVerified)

		_, err = ur.GetByExternalID(ctx, "ext-999")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("debt_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		dr := repo.NewDebtRepository(conn)

		_, err := ur.Create(ctx, newUser("bob", "bob@example.com"))
		require.NoError(t, err)

		now := time.Now().UTC().Truncate(time.Microsecond)
		debt := model.Debt{
			ID:               uuid.NewString(),
			OwnerUsername:    "bob",
			Name:             "Car loan",
			Principal:        "15000.0000",
			InterestRate:     "4.2500",
			StartDate:        now,
			PaymentFrequency: "monthly",
			PaymentAmount:    "350.0000",
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		saved, err := dr.Create(ctx, debt)
		require.NoError(t, err)
		require.Equal(t, debt.ID, saved.ID)
		require.Equal(t, "15000.0000", saved.Principal)
		require.Empty(t, saved.CurrentBalance)

		byID, err := dr.GetByID(ctx, debt.ID)
		require.NoError(t, err)
		require.Equal(t, "bob", byID.OwnerUsername)

		list, err := dr.ListByOwner(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, list, 1)

		byID.Name = "Refinanced car loan"
		byID.CurrentBalance = "11000.0000"
		byID.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		updated, err := dr.Update(ctx, byID)
		require.NoError(t, err)
		require.Equal(t, "Refinanced car loan", updated.Name)
		require.Equal(t, "11000.0000", updated.CurrentBalance)

		require.NoError(t, dr.Delete(ctx, debt.ID))
		require.ErrorIs(t, dr.Delete(ctx, debt.ID), model.ErrNotFound)

		_, err = dr.GetByID(ctx, debt.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
