package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	ck := CreateCookie(AccessCookie, "tok", "/", exp, true)

	assert.Equal(t, "accessToken", ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, exp, ck.Expires)
}

func TestDeleteCookie(t *testing.T) {
	ck := DeleteCookie(RefreshCookie, "/", false)
	assert.Equal(t, "refreshToken", ck.Name)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
	assert.False(t, ck.Secure)
}

func TestNewJTI_Unique(t *testing.T) {
	assert.NotEqual(t, NewJTI(), NewJTI())
}
