//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bissquit/store-ratings/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3rSecret!"

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

type userEnvelope struct {
	Data struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"data"`
}

type storeEnvelope struct {
	Data struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		OwnerID *string `json:"owner_id"`
	} `json:"data"`
}

// loginAsSeedAdmin returns a client authenticated as the bootstrap admin.
func loginAsSeedAdmin(t *testing.T) *testutil.Client {
	t.Helper()
	client := newTestClient(t)
	client.LoginAs(t, seedAdminEmail, seedAdminPassword)
	return client
}

// registerAndLogin self-registers a regular user and returns an
// authenticated client plus the new user's id.
func registerAndLogin(t *testing.T, name string) (*testutil.Client, string) {
	t.Helper()
	client := newTestClient(t)
	email := uniqueEmail("user")

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created userEnvelope
	testutil.DecodeJSON(t, resp, &created)

	client.LoginAs(t, email, testPassword)
	return client, created.Data.ID
}

// createUserAs creates a user with an explicit role through the admin
// endpoint and returns the new user's id and email.
func createUserAs(t *testing.T, admin *testutil.Client, name, role string) (string, string) {
	t.Helper()
	email := uniqueEmail(role)

	resp, err := admin.POST("/api/v1/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": testPassword,
		"role":     role,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created userEnvelope
	testutil.DecodeJSON(t, resp, &created)
	return created.Data.ID, email
}

// createStore creates a store through the admin endpoint. ownerID may be
// empty for an unassigned store.
func createStore(t *testing.T, admin *testutil.Client, name, ownerID string) string {
	t.Helper()

	body := map[string]any{
		"name":    name,
		"email":   uniqueEmail("store"),
		"address": "1 Main Street",
	}
	if ownerID != "" {
		body["owner_id"] = ownerID
	}

	resp, err := admin.POST("/api/v1/stores", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created storeEnvelope
	testutil.DecodeJSON(t, resp, &created)
	return created.Data.ID
}
