//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bissquit/store-ratings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	client := newTestClient(t)
	email := uniqueEmail("register")

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     "Jane Customer",
		"email":    email,
		"password": testPassword,
		"address":  "1 Main Street",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created userEnvelope
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, "user", created.Data.Role, "self-registration always yields the user role")
	assert.NotEmpty(t, created.Data.ID)

	client.LoginAs(t, email, testPassword)

	resp, err = client.GET("/api/v1/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me userEnvelope
	testutil.DecodeJSON(t, resp, &me)
	assert.Equal(t, email, me.Data.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	client := newTestClientWithoutValidation()
	email := uniqueEmail("dup")

	payload := map[string]string{
		"name":     "Jane Customer",
		"email":    email,
		"password": testPassword,
	}

	resp, err := client.POST("/api/v1/auth/register", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/api/v1/auth/register", payload)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	client := newTestClientWithoutValidation()

	for _, password := range []string{
		"short1!",          // under 8 characters
		"nouppercase1!",    // no uppercase letter
		"NoSpecialChar12",  // none of the allowed special characters
		"Waaaay2Long!Password", // over 16 characters
	} {
		resp, err := client.POST("/api/v1/auth/register", map[string]string{
			"name":     "Jane Customer",
			"email":    uniqueEmail("weak"),
			"password": password,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "password %q", password)
		_ = resp.Body.Close()
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	client := newTestClientWithoutValidation()
	email := uniqueEmail("probe")

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     "Jane Customer",
		"email":    email,
		"password": testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "Wr0ngPass!",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wrongPassword := testutil.ReadBody(t, resp)

	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    uniqueEmail("nobody"),
		"password": "Wr0ngPass!",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	unknownEmail := testutil.ReadBody(t, resp)

	// Same status and same body so an attacker cannot probe which emails exist.
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	client := newTestClientWithoutValidation()

	for _, path := range []string{"/api/v1/me", "/api/v1/stores", "/api/v1/ratings/my"} {
		resp, err := client.GET(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)
		_ = resp.Body.Close()
	}
}
