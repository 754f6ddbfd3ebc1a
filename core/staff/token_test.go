package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
)

func TestInviteToken(t *testing.T) {
	conf := &core.Config{
		AppName:                   "Shule",
		SecretKey:                 "poq5-wer$#@",
		InvitationExpirationDelta: 72 * time.Hour,
	}
	member := Member{
		ID:       "6e3c4d12-8f1a-4c6e-9b0f-53b0c7a8e001",
		SchoolID: "b1a2c3d4-0000-4000-8000-000000000001",
		Name:     "Awa Traore",
		Email:    "awa@hilltop.ac",
		Role:     RoleProfessor,
	}

	t.Run("round trip", func(t *testing.T) {
		token, err := MakeInviteToken(conf, member)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := VerifyInviteToken(conf, token)
		require.NoError(t, err)
		assert.Equal(t, member.Email, claims.Subject)
		assert.Equal(t, member.SchoolID, claims.SchoolID)
		assert.Equal(t, member.Name, claims.Name)
		assert.Equal(t, member.Role, claims.Role)
		assert.Equal(t, conf.AppName, claims.Issuer)
	})

	t.Run("tampered", func(t *testing.T) {
		token, err := MakeInviteToken(conf, member)
		require.NoError(t, err)

		_, err = VerifyInviteToken(conf, token+"x")
		assert.Equal(t, errInvalidToken, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherConf := *conf
		otherConf.SecretKey = "another-secret"
		token, err := MakeInviteToken(&otherConf, member)
		require.NoError(t, err)

		_, err = VerifyInviteToken(conf, token)
		assert.Equal(t, errInvalidToken, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := VerifyInviteToken(conf, "not-a-token")
		assert.Equal(t, errInvalidToken, err)
	})

	t.Run("expired", func(t *testing.T) {
		nowFunc = func() time.Time { return time.Now().Add(-(conf.InvitationExpirationDelta + time.Hour)) }
		defer func() { nowFunc = time.Now }()

		token, err := MakeInviteToken(conf, member)
		require.NoError(t, err)

		_, err = VerifyInviteToken(conf, token)
		assert.Equal(t, errTokenExpired, err)
	})
}
