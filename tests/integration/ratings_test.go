//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bissquit/store-ratings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingEnvelope struct {
	Data struct {
		Rating struct {
			ID      string `json:"id"`
			StoreID string `json:"store_id"`
			Value   int    `json:"value"`
		} `json:"rating"`
		Created bool `json:"created"`
	} `json:"data"`
}

type storeListEnvelope struct {
	Data []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Aggregate struct {
			Count   int    `json:"count"`
			Average string `json:"average"`
		} `json:"aggregate"`
		MyRating int `json:"my_rating"`
	} `json:"data"`
}

func findStore(t *testing.T, list storeListEnvelope, storeID string) (int, bool) {
	t.Helper()
	for i, s := range list.Data {
		if s.ID == storeID {
			return i, true
		}
	}
	return 0, false
}

func TestRatingUpsertLastWriteWins(t *testing.T) {
	admin := loginAsSeedAdmin(t)
	storeID := createStore(t, admin, "Corner Grocery", "")
	client, _ := registerAndLogin(t, "Jane Customer")

	// First submission creates the rating.
	resp, err := client.POST("/api/v1/ratings", map[string]any{
		"store_id": storeID,
		"value":    5,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var first ratingEnvelope
	testutil.DecodeJSON(t, resp, &first)
	assert.True(t, first.Data.Created)
	assert.Equal(t, 5, first.Data.Rating.Value)

	// Second submission overwrites it in place.
	resp, err = client.POST("/api/v1/ratings", map[string]any{
		"store_id": storeID,
		"value":    2,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second ratingEnvelope
	testutil.DecodeJSON(t, resp, &second)
	assert.False(t, second.Data.Created)
	assert.Equal(t, first.Data.Rating.ID, second.Data.Rating.ID, "overwrite keeps the row")
	assert.Equal(t, 2, second.Data.Rating.Value)

	// The store list shows the overwritten value, not an average of both.
	resp, err = client.GET("/api/v1/stores")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stores storeListEnvelope
	testutil.DecodeJSON(t, resp, &stores)
	i, found := findStore(t, stores, storeID)
	require.True(t, found)
	assert.Equal(t, 1, stores.Data[i].Aggregate.Count)
	assert.Equal(t, "2.0", stores.Data[i].Aggregate.Average)
	assert.Equal(t, 2, stores.Data[i].MyRating)
}

func TestRatingAggregateAcrossUsers(t *testing.T) {
	admin := loginAsSeedAdmin(t)
	storeID := createStore(t, admin, "Book Nook", "")

	alice, _ := registerAndLogin(t, "Alice Johnson")
	bob, _ := registerAndLogin(t, "Bob Smithson")

	for client, value := range map[*testutil.Client]int{alice: 5, bob: 4} {
		resp, err := client.POST("/api/v1/ratings", map[string]any{
			"store_id": storeID,
			"value":    value,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := alice.GET("/api/v1/stores")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stores storeListEnvelope
	testutil.DecodeJSON(t, resp, &stores)
	i, found := findStore(t, stores, storeID)
	require.True(t, found)
	assert.Equal(t, 2, stores.Data[i].Aggregate.Count)
	assert.Equal(t, "4.5", stores.Data[i].Aggregate.Average)
	assert.Equal(t, 5, stores.Data[i].MyRating)

	// Bob sees the same aggregate but his own rating.
	resp, err = bob.GET("/api/v1/stores")
	require.NoError(t, err)
	testutil.DecodeJSON(t, resp, &stores)
	i, found = findStore(t, stores, storeID)
	require.True(t, found)
	assert.Equal(t, 4, stores.Data[i].MyRating)
}

func TestRatingValidation(t *testing.T) {
	admin := loginAsSeedAdmin(t)
	storeID := createStore(t, admin, "Validation Mart", "")
	client, _ := registerAndLogin(t, "Jane Customer")
	raw := newTestClientWithoutValidation()
	raw.Token = client.Token

	t.Run("value out of range", func(t *testing.T) {
		for _, value := range []int{0, 6, -3} {
			resp, err := raw.POST("/api/v1/ratings", map[string]any{
				"store_id": storeID,
				"value":    value,
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "value %d", value)
			_ = resp.Body.Close()
		}
	})

	t.Run("unknown store", func(t *testing.T) {
		resp, err := raw.POST("/api/v1/ratings", map[string]any{
			"store_id": "00000000-0000-0000-0000-000000000000",
			"value":    3,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestListOwnRatings(t *testing.T) {
	admin := loginAsSeedAdmin(t)
	firstStore := createStore(t, admin, "First Stop", "")
	secondStore := createStore(t, admin, "Second Stop", "")
	client, _ := registerAndLogin(t, "Jane Customer")

	for storeID, value := range map[string]int{firstStore: 3, secondStore: 4} {
		resp, err := client.POST("/api/v1/ratings", map[string]any{
			"store_id": storeID,
			"value":    value,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := client.GET("/api/v1/ratings/my")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mine struct {
		Data []struct {
			StoreID string `json:"store_id"`
			Value   int    `json:"value"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &mine)
	assert.Len(t, mine.Data, 2)
}
