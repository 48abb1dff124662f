package credential

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"bookfair/models"

	"github.com/golang-jwt/jwt"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	tokenIssuer   = "bookfair-credential"
	tokenAudience = "entry"
	displayPrefix = "BSFAIR-"

	// QRSize is the edge length in pixels of rendered badge codes.
	QRSize = 290
)

// Store is the slice of the reservation ledger the issuer reads and revokes.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	RevokeCredential(ctx context.Context, id string, at time.Time) error
}

// Issuer mints and checks entry credentials for confirmed reservations.
type Issuer struct {
	secret []byte
	store  Store
	now    func() time.Time
}

func NewIssuer(secret string, store Store) *Issuer {
	return &Issuer{secret: []byte(secret), store: store, now: time.Now}
}

// Issue returns the credential for r. The claims carry no timestamps, so the
// same reservation always yields the same token.
func (i *Issuer) Issue(r models.Reservation) (string, error) {
	if r.CredentialToken != "" {
		return r.CredentialToken, nil
	}
	claims := jwt.StandardClaims{
		Subject:  r.ID,
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Revoke marks the reservation's credential unverifiable without changing the
// reservation's status, for a lost or leaked badge. The token is kept.
// Cancellation revokes through the ledger transition instead.
func (i *Issuer) Revoke(ctx context.Context, reservationID string) error {
	return i.store.RevokeCredential(ctx, reservationID, i.now())
}

// Verify returns the confirmed reservation that token admits.
func (i *Issuer) Verify(ctx context.Context, token string) (*models.Reservation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.NewError(models.CodeInvalidCredential, "credential is empty")
	}

	var claims jwt.StandardClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.NewError(models.CodeInvalidCredential, "credential signature is invalid")
	}
	if !claims.VerifyIssuer(tokenIssuer, true) || !claims.VerifyAudience(tokenAudience, true) || claims.Subject == "" {
		return nil, models.NewError(models.CodeInvalidCredential, "credential claims are invalid")
	}

	r, err := i.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.CodeInvalidCredential, "credential refers to an unknown reservation")
		}
		return nil, err
	}
	if r.Status != models.StatusConfirmed {
		return nil, models.NewError(models.CodeInvalidCredential, "reservation %s is %s", r.ID, r.Status)
	}
	if r.CredentialRevoked || r.CredentialToken != token {
		return nil, models.NewError(models.CodeInvalidCredential, "credential has been revoked")
	}
	return r, nil
}

// DisplayCode is the short admission code printed on a vendor's badge.
func DisplayCode(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return displayPrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}

// QRCode renders token as a PNG QR code size pixels square.
func QRCode(token string, size int) ([]byte, error) {
	if token == "" {
		return nil, models.NewError(models.CodeInvalidCredential, "credential is empty")
	}
	return qrcode.Encode(token, qrcode.Low, size)
}

// Badge is what a vendor presents at the gate.
type Badge struct {
	ReservationID string `json:"reservation_id"`
	StallName     string `json:"stall_name"`
	EntryCode     string `json:"entry_code"`
	QRData        string `json:"qr_data"`
	// QRCode is the base64 encoded PNG of QRData.
	QRCode string `json:"qr_code"`
}

// Badge renders the admission badge of a confirmed reservation whose
// credential is still valid.
func (i *Issuer) Badge(r models.Reservation, stallName string) (*Badge, error) {
	if r.Status != models.StatusConfirmed {
		return nil, models.NewError(models.CodeInvalidCredential, "reservation %s is %s", r.ID, r.Status)
	}
	if r.CredentialToken == "" || r.CredentialRevoked {
		return nil, models.NewError(models.CodeInvalidCredential, "reservation %s has no valid credential", r.ID)
	}
	png, err := QRCode(r.CredentialToken, QRSize)
	if err != nil {
		return nil, err
	}
	return &Badge{
		ReservationID: r.ID,
		StallName:     stallName,
		EntryCode:     DisplayCode(r.CredentialToken),
		QRData:        r.CredentialToken,
		QRCode:        base64.StdEncoding.EncodeToString(png),
	}, nil
}
