package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decorconnect/internal/entities"
	"decorconnect/internal/repository"
)

const baseURL = "http://localhost:8080"

func (suite *ComponentTestSuite) seedProviderWithPackage(price int64) (entities.Provider, entities.Package) {
	t := suite.T()
	t.Helper()

	providers := repository.NewProvidersRepo(suite.db, trmsqlx.DefaultCtxGetter)
	packages := repository.NewPackagesRepo(suite.db, trmsqlx.DefaultCtxGetter)

	provider := entities.Provider{
		ID:            uuid.New(),
		Name:          "Studio " + uuid.NewString()[:8],
		AverageRating: 4.6,
	}
	require.NoError(t, providers.Create(suite.ctx, provider))

	pkg := entities.Package{
		ID:         uuid.New(),
		ProviderID: provider.ID,
		Name:       "Full Home Styling",
		Price:      price,
		EventType:  "housewarming",
	}
	require.NoError(t, packages.Create(suite.ctx, pkg))

	return provider, pkg
}

func (suite *ComponentTestSuite) createReservation(pkg entities.Package, customerID uuid.UUID, eventDate string) entities.Reservation {
	t := suite.T()
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"payment_reference": "pay_" + uuid.NewString(),
		"provider_id":       pkg.ProviderID,
		"customer_id":       customerID,
		"package_id":        pkg.ID,
		"event_date":        eventDate,
		"amount":            pkg.Price,
	})
	require.NoError(t, err)

	resp, err := suite.httpClient.Post(baseURL+"/reservations", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res entities.Reservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func (suite *ComponentTestSuite) TestReservationLifecycle() {
	t := suite.T()

	_, pkg := suite.seedProviderWithPackage(200000)
	customerID := uuid.New()

	confirmedBefore := suite.notifications.confirmedCount()

	res := suite.createReservation(pkg, customerID, "2026-09-12")
	assert.Regexp(t, `^DC-\d{4}-\d{4}$`, res.BookingID)
	assert.EqualValues(t, 20000, res.Commission)
	assert.EqualValues(t, 100000, res.Deposit)
	assert.EqualValues(t, 100000, res.Remaining)

	// The day is now taken.
	resp, err := suite.httpClient.Get(fmt.Sprintf(
		"%s/availability?provider_id=%s&event_date=2026-09-12", baseURL, pkg.ProviderID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var availability entities.Availability
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&availability))
	assert.False(t, availability.Available)
	assert.Equal(t, res.BookingID, availability.ConflictingBookingID)

	// Both parties see the booking.
	for _, query := range []string{
		fmt.Sprintf("owner_id=%s&role=provider", pkg.ProviderID),
		fmt.Sprintf("owner_id=%s&role=customer", customerID),
	} {
		listResp, err := suite.httpClient.Get(baseURL + "/reservations?" + query)
		require.NoError(t, err)
		var list []entities.Reservation
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
		listResp.Body.Close()
		require.Len(t, list, 1)
		assert.Equal(t, res.BookingID, list[0].BookingID)
	}

	// The confirmation event reached the notifications handler.
	require.Eventually(t, func() bool {
		return suite.notifications.confirmedCount() > confirmedBefore
	}, 10*time.Second, 100*time.Millisecond, "confirmation notification not delivered")

	// Badges were recomputed off the confirmed event.
	require.EventuallyWithT(t, func(c *assert.CollectT) {
		badgesResp, err := suite.httpClient.Get(fmt.Sprintf("%s/providers/%s/badges", baseURL, pkg.ProviderID))
		if !assert.NoError(c, err) {
			return
		}
		defer badgesResp.Body.Close()

		var payload struct {
			Badges []entities.Badge `json:"badges"`
		}
		assert.NoError(c, json.NewDecoder(badgesResp.Body).Decode(&payload))
		assert.Contains(c, payload.Badges, entities.BadgeTopRated)
	}, 10*time.Second, 100*time.Millisecond)

	// Cancel and verify the day frees up.
	cancelBody, _ := json.Marshal(map[string]any{"actor_id": customerID})
	cancelResp, err := suite.httpClient.Post(
		baseURL+"/reservations/"+res.BookingID+"/cancel", "application/json", bytes.NewReader(cancelBody))
	require.NoError(t, err)
	cancelResp.Body.Close()
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)

	availResp, err := suite.httpClient.Get(fmt.Sprintf(
		"%s/availability?provider_id=%s&event_date=2026-09-12", baseURL, pkg.ProviderID))
	require.NoError(t, err)
	defer availResp.Body.Close()
	require.NoError(t, json.NewDecoder(availResp.Body).Decode(&availability))
	assert.True(t, availability.Available)

	require.Eventually(t, func() bool {
		return suite.notifications.cancelledCount() > 0
	}, 10*time.Second, 100*time.Millisecond, "cancellation notification not delivered")
}

func (suite *ComponentTestSuite) TestDoubleBookingRejected() {
	t := suite.T()

	_, pkg := suite.seedProviderWithPackage(90000)
	suite.createReservation(pkg, uuid.New(), "2026-10-03")

	body, err := json.Marshal(map[string]any{
		"payment_reference": "pay_" + uuid.NewString(),
		"provider_id":       pkg.ProviderID,
		"customer_id":       uuid.New(),
		"package_id":        pkg.ID,
		"event_date":        "2026-10-03",
		"amount":            pkg.Price,
	})
	require.NoError(t, err)

	resp, err := suite.httpClient.Post(baseURL+"/reservations", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func (suite *ComponentTestSuite) TestPaymentReferenceReplay() {
	t := suite.T()

	_, pkg := suite.seedProviderWithPackage(120000)
	paymentRef := "pay_" + uuid.NewString()

	body, err := json.Marshal(map[string]any{
		"payment_reference": paymentRef,
		"provider_id":       pkg.ProviderID,
		"customer_id":       uuid.New(),
		"package_id":        pkg.ID,
		"event_date":        "2026-11-20",
		"amount":            pkg.Price,
	})
	require.NoError(t, err)

	first, err := suite.httpClient.Post(baseURL+"/reservations", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var created entities.Reservation
	require.NoError(t, json.NewDecoder(first.Body).Decode(&created))
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, err := suite.httpClient.Post(baseURL+"/reservations", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var replayed entities.Reservation
	require.NoError(t, json.NewDecoder(second.Body).Decode(&replayed))
	second.Body.Close()

	assert.Equal(t, created.BookingID, replayed.BookingID)
}
