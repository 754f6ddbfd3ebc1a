package staff

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

var (
	nowFunc = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid invitation token")
	errTokenExpired = errors.New("invitation has expired")
)

// InviteClaims are the claims carried by a signed invitation link. Subject is
// the invitee's email.
type InviteClaims struct {
	jwt.StandardClaims
	SchoolID string `json:"school_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// MakeInviteToken generates a signed invitation token for the given member,
// expiring after Config.InvitationExpirationDelta.
func MakeInviteToken(conf *core.Config, m Member) (string, error) {
	now := nowFunc()
	claims := &InviteClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   m.Email,
			Audience:  "Onboarding",
			ExpiresAt: now.Add(conf.InvitationExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SchoolID: m.SchoolID,
		Name:     m.Name,
		Role:     m.Role,
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod("HS256"), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", pkgerrors.Wrap(err, "signing invitation token")
	}
	return ss, nil
}

// VerifyInviteToken checks the token's signature and expiry and returns its
// claims.
func VerifyInviteToken(conf *core.Config, tokenStr string) (InviteClaims, error) {
	claims := new(InviteClaims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil {
		if verr, ok := err.(*jwt.ValidationError); ok && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return InviteClaims{}, errTokenExpired
		}
		return InviteClaims{}, errInvalidToken
	}
	if !token.Valid {
		return InviteClaims{}, errInvalidToken
	}
	return *claims, nil
}
