package account

import (
	"context"
	"testing"
	"time"

	"bookfair/database/repository"
	"bookfair/models"
	"bookfair/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *DefaultAccountService {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	ctx := context.Background()
	for _, g := range []models.Genre{{ID: "g1", Name: "Fiction"}, {ID: "g2", Name: "Poetry"}, {ID: "g3", Name: "History"}} {
		require.NoError(t, repos.Genres.Create(ctx, &g))
	}
	return NewDefaultAccountService(repos, utils.NewTokenManager("secret", time.Hour), "let-me-in", nil)
}

func registration() models.VendorRegistration {
	return models.VendorRegistration{
		Username:     "inkwell",
		Email:        "Ink@Example.com",
		Password:     "hunter22",
		BusinessName: "Inkwell Books",
		BusinessType: "publisher",
	}
}

func TestRegisterAndAuthenticateVendor(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	vendor, auth, err := s.RegisterVendor(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "ink@example.com", vendor.Email)
	assert.Equal(t, models.BusinessPublisher, vendor.BusinessType)
	assert.True(t, vendor.IsActive)
	assert.NotEqual(t, "hunter22", vendor.PasswordHash)

	actor, err := s.Tokens.ParseActor(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, models.VendorActor(vendor.ID), actor)

	_, _, err = s.RegisterVendor(ctx, registration())
	assert.ErrorIs(t, err, models.ErrConflict)

	_, auth, err = s.AuthenticateVendor(ctx, "ink@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)

	_, _, err = s.AuthenticateVendor(ctx, "ink@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, _, err = s.AuthenticateVendor(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRegisterVendorValidation(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	req := registration()
	req.BusinessType = "Bakery"
	_, _, err := s.RegisterVendor(ctx, req)
	assert.ErrorIs(t, err, models.ErrValidation)

	req = registration()
	req.Password = "123"
	_, _, err = s.RegisterVendor(ctx, req)
	assert.ErrorIs(t, err, models.ErrValidation)

	req = registration()
	req.Email = "not-an-email"
	_, _, err = s.RegisterVendor(ctx, req)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	vendor, _, err := s.RegisterVendor(ctx, registration())
	require.NoError(t, err)

	city := "Colombo"
	updated, err := s.UpdateProfile(ctx, vendor.ID, models.VendorProfileUpdate{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Colombo", updated.City)

	empty := " "
	_, err = s.UpdateProfile(ctx, vendor.ID, models.VendorProfileUpdate{BusinessName: &empty})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.ErrorIs(t, s.ChangePassword(ctx, vendor.ID, "wrong", "newpass1"), models.ErrUnauthorized)
	assert.ErrorIs(t, s.ChangePassword(ctx, vendor.ID, "hunter22", "x"), models.ErrValidation)
	require.NoError(t, s.ChangePassword(ctx, vendor.ID, "hunter22", "newpass1"))

	_, _, err = s.AuthenticateVendor(ctx, vendor.Email, "newpass1")
	require.NoError(t, err)
}

func TestVendorGenres(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	vendor, _, err := s.RegisterVendor(ctx, registration())
	require.NoError(t, err)

	genres, err := s.SetGenres(ctx, vendor.ID, []string{"g2", "g1", "g2"})
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	_, err = s.SetGenres(ctx, vendor.ID, []string{"missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.AddGenre(ctx, vendor.ID, "g1")
	assert.ErrorIs(t, err, models.ErrConflict)

	genres, err = s.AddGenre(ctx, vendor.ID, "g3")
	require.NoError(t, err)
	assert.Len(t, genres, 3)

	genres, err = s.RemoveGenre(ctx, vendor.ID, "g2")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g3"}, []string{genres[0].ID, genres[1].ID})

	_, err = s.RemoveGenre(ctx, vendor.ID, "g2")
	assert.ErrorIs(t, err, models.ErrNotFound)

	genres, err = s.VendorGenres(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	all, err := s.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStaffAccounts(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	req := models.StaffRegistration{Username: "ops", Email: "ops@fair.lk", Password: "s3cret!", FullName: "Ops Desk"}

	_, _, err := s.RegisterStaff(ctx, req, "wrong-key")
	assert.ErrorIs(t, err, models.ErrForbidden)

	staff, auth, err := s.RegisterStaff(ctx, req, "let-me-in")
	require.NoError(t, err)
	assert.Equal(t, models.StaffMember, staff.Role)
	assert.Equal(t, models.RoleStaff, auth.Actor.Role)

	_, auth, err = s.AuthenticateStaff(ctx, "OPS@fair.lk", "s3cret!")
	require.NoError(t, err)
	actor, err := s.Tokens.ParseActor(auth.Token)
	require.NoError(t, err)
	assert.True(t, actor.IsStaff())

	req.Role = "janitor"
	req.Email = "other@fair.lk"
	req.Username = "other"
	_, _, err = s.RegisterStaff(ctx, req, "let-me-in")
	assert.ErrorIs(t, err, models.ErrValidation)

	s.StaffRegistrationKey = ""
	_, _, err = s.RegisterStaff(ctx, req, "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGenreCatalog(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	created, err := s.CreateGenre(ctx, models.Genre{Name: "  Travel ", Description: "Guides", ID: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", created.Name)
	assert.NotEqual(t, "ignored", created.ID)

	got, err := s.GetGenre(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = s.CreateGenre(ctx, models.Genre{Name: "fiction"})
	assert.ErrorIs(t, err, models.ErrConflict)
	_, err = s.CreateGenre(ctx, models.Genre{Name: " "})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.GetGenre(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err := s.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDirectoryReads(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	vendor, _, err := s.RegisterVendor(ctx, registration())
	require.NoError(t, err)
	vendors, err := s.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, vendor.ID, vendors[0].ID)

	staff, _, err := s.RegisterStaff(ctx, models.StaffRegistration{
		Username: "ops", Email: "ops@example.com", Password: "secret12", FullName: "Ops",
	}, "let-me-in")
	require.NoError(t, err)
	got, err := s.GetStaff(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got.Email)
}
