package lib

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminLogin_roundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seeded := seedAdmin(t, svc, "root", "senha-forte", true)

	token, admin, err := svc.AdminLogin(ctx, "root", "senha-forte")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, seeded.ID, admin.ID)
	require.True(t, admin.LastLogin.Valid)

	fromToken, err := svc.AdminFromToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, fromToken.ID)
	require.Equal(t, "root", fromToken.Username)
}

func TestAdminLogin_wrongPassword(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc, "root", "senha-forte", true)

	_, _, err := svc.AdminLogin(context.Background(), "root", "errada")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_unknownUsername(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AdminLogin(context.Background(), "ninguem", "qualquer")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_inactiveAdmin(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc, "root", "senha-forte", false)

	_, _, err := svc.AdminLogin(context.Background(), "root", "senha-forte")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminFromToken_garbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AdminFromToken(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestAdminFromToken_wrongKey(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc, "root", "senha-forte", true)

	token, _, err := svc.AdminLogin(context.Background(), "root", "senha-forte")
	require.NoError(t, err)

	svc.cfg.AdminJWTSecret = "rotated"
	_, err = svc.AdminFromToken(context.Background(), token)
	require.Error(t, err)
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, svc, "ana")
	inactive := seedUser(t, svc, "bia")
	_, err := svc.UpdateUser(ctx, inactive.ID, UpdateUserParams{IsActive: ptr(false)})
	require.NoError(t, err)

	plan, err := svc.CreatePlan(ctx, PlanParams{Name: "Pro", Price: 99})
	require.NoError(t, err)
	_, err = svc.CreateSubscription(ctx, user.ID, plan.ID, 12)
	require.NoError(t, err)
	_, err = svc.CreateSearchTarget(ctx, user.ID, "123456", "SP")
	require.NoError(t, err)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.ActiveUsers)
	require.EqualValues(t, 1, stats.TotalSubscriptions)
	require.EqualValues(t, 1, stats.ActiveSubscriptions)
	require.EqualValues(t, 1, stats.TotalSearchTargets)
	require.EqualValues(t, 0, stats.TotalPublications)
	require.EqualValues(t, 2, stats.RecentUsers)
}

func TestUsersPage_search(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedUser(t, svc, "carlos")
	seedUser(t, svc, "carla")
	seedUser(t, svc, "pedro")

	page, err := svc.UsersPage(ctx, "carl", 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 2)

	page, err = svc.UsersPage(ctx, "", 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, 2, page.Pages)
	require.Len(t, page.Items, 2)
}

func ptr[T any](v T) *T { return &v }
