package credential

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"testing"
	"time"

	reservationRepo "bookfair/database/repository/reservation"
	"bookfair/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmed(t *testing.T, ledger *reservationRepo.MemoryLedger, issuer *Issuer, id string) *models.Reservation {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, ledger.Create(ctx, &models.Reservation{
		ID: id, VendorID: "v1", StallID: "stall-" + id, Status: models.StatusPending, CreatedAt: now, UpdatedAt: now,
	}))
	r, err := ledger.GetByID(ctx, id)
	require.NoError(t, err)
	token, err := issuer.Issue(*r)
	require.NoError(t, err)
	out, err := ledger.Transition(ctx, id, models.Transition{
		From:            models.StatusPending,
		To:              models.StatusConfirmed,
		Actor:           models.StaffActor("s1"),
		At:              now,
		CredentialToken: token,
	})
	require.NoError(t, err)
	return out
}

func TestIssuer_IssueIsDeterministic(t *testing.T) {
	issuer := NewIssuer("secret", reservationRepo.NewMemoryLedger())
	a, err := issuer.Issue(models.Reservation{ID: "r1"})
	require.NoError(t, err)
	b, err := issuer.Issue(models.Reservation{ID: "r1"})
	require.NoError(t, err)
	c, err := issuer.Issue(models.Reservation{ID: "r2"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	stored, err := issuer.Issue(models.Reservation{ID: "r1", CredentialToken: "kept"})
	require.NoError(t, err)
	assert.Equal(t, "kept", stored)
}

func TestIssuer_VerifyConfirmed(t *testing.T) {
	ledger := reservationRepo.NewMemoryLedger()
	issuer := NewIssuer("secret", ledger)
	r := confirmed(t, ledger, issuer, "r1")

	got, err := issuer.Verify(context.Background(), r.CredentialToken)
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
}

func TestIssuer_VerifyRejectsForgedAndRevoked(t *testing.T) {
	ctx := context.Background()
	ledger := reservationRepo.NewMemoryLedger()
	issuer := NewIssuer("secret", ledger)
	r := confirmed(t, ledger, issuer, "r1")

	forger := NewIssuer("other-secret", ledger)
	forged, err := forger.Issue(models.Reservation{ID: "r1"})
	require.NoError(t, err)
	_, err = issuer.Verify(ctx, forged)
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	_, err = issuer.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	unknown, err := issuer.Issue(models.Reservation{ID: "missing"})
	require.NoError(t, err)
	_, err = issuer.Verify(ctx, unknown)
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	require.NoError(t, issuer.Revoke(ctx, r.ID))
	_, err = issuer.Verify(ctx, r.CredentialToken)
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	stored, err := ledger.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.CredentialToken, stored.CredentialToken)
}

func TestIssuer_VerifyRequiresConfirmedStatus(t *testing.T) {
	ctx := context.Background()
	ledger := reservationRepo.NewMemoryLedger()
	issuer := NewIssuer("secret", ledger)
	r := confirmed(t, ledger, issuer, "r1")

	_, err := ledger.Transition(ctx, r.ID, models.Transition{
		From:             models.StatusConfirmed,
		To:               models.StatusCancelled,
		Actor:            models.VendorActor("v1"),
		At:               time.Now(),
		RevokeCredential: true,
	})
	require.NoError(t, err)

	_, err = issuer.Verify(ctx, r.CredentialToken)
	assert.ErrorIs(t, err, models.ErrInvalidCredential)
}

func TestDisplayCode(t *testing.T) {
	code := DisplayCode("abc")
	assert.Regexp(t, `^BSFAIR-[0-9A-F]{12}$`, code)
	assert.Equal(t, code, DisplayCode("abc"))
	assert.Empty(t, DisplayCode(""))
}

func TestIssuer_BadgeRendersPNG(t *testing.T) {
	ledger := reservationRepo.NewMemoryLedger()
	issuer := NewIssuer("secret", ledger)
	r := confirmed(t, ledger, issuer, "r1")

	badge, err := issuer.Badge(*r, "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", badge.StallName)
	assert.Equal(t, r.CredentialToken, badge.QRData)
	assert.Equal(t, DisplayCode(r.CredentialToken), badge.EntryCode)

	raw, err := base64.StdEncoding.DecodeString(badge.QRCode)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
}

func TestIssuer_BadgeRequiresValidCredential(t *testing.T) {
	ledger := reservationRepo.NewMemoryLedger()
	issuer := NewIssuer("secret", ledger)

	_, err := issuer.Badge(models.Reservation{ID: "p", Status: models.StatusPending}, "A1")
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	r := confirmed(t, ledger, issuer, "r2")
	require.NoError(t, issuer.Revoke(context.Background(), r.ID))
	revoked, err := ledger.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = issuer.Badge(*revoked, "A1")
	assert.ErrorIs(t, err, models.ErrInvalidCredential)
}
