package main

import (
	"net/http"
	"testing"

	"sharedledger/internal/identity"
	"sharedledger/internal/ledger"
	"sharedledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateCost tests the POST /api/costs endpoint
func TestCreateCost(t *testing.T) {
	t.Run("should record a cost with a numeric amount", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount":        1500,
			"extra_charges": 200,
			"description":   "Logo Design",
			"category":      "Branding",
		}))

		assertStatusCode(t, http.StatusCreated, resp.Code)

		var created CostResponse
		require.NoError(t, parseJSONResponse(resp, &created))
		assert.NotEmpty(t, created.Entry.ID)
		assert.Equal(t, 1500.0, created.Entry.BaseAmount)
		assert.Equal(t, 200.0, created.Entry.ExtraCharges)
		assert.Equal(t, "Sanjaya", created.Entry.RecordedBy)
		assert.True(t, created.Mirrored)

		feed := fetchLedger(t).Feed
		require.Len(t, feed, 1)
		assert.Equal(t, created.Entry.ID, feed[0].ID())
		assert.Equal(t, 1500.0, feed[0].Cost.BaseAmount)
	})

	t.Run("should accept the amount as a string", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount": "2499.99",
		}))

		assertStatusCode(t, http.StatusCreated, resp.Code)

		var created CostResponse
		require.NoError(t, parseJSONResponse(resp, &created))
		assert.Equal(t, 2499.99, created.Entry.BaseAmount)
		assert.Equal(t, ledger.DefaultCostDescription, created.Entry.Description)
		assert.Equal(t, ledger.DefaultCostCategory, created.Entry.Category)
	})

	t.Run("should reject invalid amounts and persist nothing", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		for _, amount := range []interface{}{0, -5, "abc", "", nil} {
			resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
				"amount": amount,
			}))
			assertStatusCode(t, http.StatusBadRequest, resp.Code)

			var errorResp map[string]interface{}
			assertNoError(t, parseJSONResponse(resp, &errorResp))
			assert.NotNil(t, errorResp["error"], "amount %v", amount)
		}

		assert.Empty(t, fetchLedger(t).Feed)
	})

	t.Run("should reject negative extra charges", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount":        100,
			"extra_charges": -10,
		}))

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should require the role header", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequest("POST", "/api/costs", jsonBody(t, map[string]interface{}{"amount": 10}))

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, []int{1, 2}))

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should mirror the cost to the sync url", func(t *testing.T) {
		require.NoError(t, cleanupTestData())
		useWebhook(t)

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount":      300,
			"description": "Photo Retouch",
		}))
		assertStatusCode(t, http.StatusCreated, resp.Code)

		posts := testWebhook.received()
		require.Len(t, posts, 1)
		assert.Equal(t, "ADD", posts[0]["action"])
		assert.Equal(t, "COST", posts[0]["entryType"])
		assert.Equal(t, "sanjaya@designer.com", posts[0]["userEmail"])
		assert.Equal(t, 300.0, posts[0]["amount"])
	})

	t.Run("should keep the cost when the sync url fails", func(t *testing.T) {
		require.NoError(t, cleanupTestData())
		useWebhook(t)
		testWebhook.fail()

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount": 300,
		}))
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var created CostResponse
		require.NoError(t, parseJSONResponse(resp, &created))
		assert.False(t, created.Mirrored)
		assert.NotEmpty(t, created.SyncError)

		ledgerResp := fetchLedger(t)
		assert.Equal(t, ledger.SourceLocal, ledgerResp.Source)
		assert.Len(t, ledgerResp.Feed, 1)
	})
}

// TestCreatePayment tests the POST /api/payments endpoint
func TestCreatePayment(t *testing.T) {
	t.Run("should record a payment with defaults", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleClient, "POST", "/api/payments", jsonBody(t, map[string]interface{}{
			"amount": "500",
		}))

		assertStatusCode(t, http.StatusCreated, resp.Code)

		var created PaymentResponse
		require.NoError(t, parseJSONResponse(resp, &created))
		assert.Equal(t, 500.0, created.Entry.Amount)
		assert.Equal(t, models.MethodSampathBank, created.Entry.Method)
		assert.Equal(t, ledger.DefaultPaymentNote, created.Entry.Note)
		assert.Equal(t, "Ravi", created.Entry.RecordedBy)
	})

	t.Run("should keep method and note", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleClient, "POST", "/api/payments", jsonBody(t, map[string]interface{}{
			"amount": 250.5,
			"method": models.MethodGPay,
			"note":   "March advance",
		}))

		assertStatusCode(t, http.StatusCreated, resp.Code)

		var created PaymentResponse
		require.NoError(t, parseJSONResponse(resp, &created))
		assert.Equal(t, 250.5, created.Entry.Amount)
		assert.Equal(t, models.MethodGPay, created.Entry.Method)
		assert.Equal(t, "March advance", created.Entry.Note)
	})

	t.Run("should reject a zero amount", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleClient, "POST", "/api/payments", jsonBody(t, map[string]interface{}{
			"amount": 0,
		}))

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		assert.Empty(t, fetchLedger(t).Feed)
	})
}

// TestDeleteEntry tests the DELETE /api/entries/:kind/:id endpoint
func TestDeleteEntry(t *testing.T) {
	type seeded struct {
		costID        string
		clientPayment string
		otherPayment  string
	}

	seed := func(t *testing.T) seeded {
		require.NoError(t, cleanupTestData())
		var s seeded

		var cost CostResponse
		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{"amount": 1000}))
		require.NoError(t, parseJSONResponse(resp, &cost))
		s.costID = cost.Entry.ID

		var payment PaymentResponse
		resp = makeRequestAs(identity.RoleClient, "POST", "/api/payments", jsonBody(t, map[string]interface{}{"amount": 100}))
		require.NoError(t, parseJSONResponse(resp, &payment))
		s.clientPayment = payment.Entry.ID

		resp = makeRequestAs(identity.RoleProvider, "POST", "/api/payments", jsonBody(t, map[string]interface{}{"amount": 200}))
		require.NoError(t, parseJSONResponse(resp, &payment))
		s.otherPayment = payment.Entry.ID
		return s
	}

	t.Run("client cannot delete a cost", func(t *testing.T) {
		s := seed(t)

		resp := makeRequestAs(identity.RoleClient, "DELETE", "/api/entries/cost/"+s.costID, nil)

		assertStatusCode(t, http.StatusForbidden, resp.Code)
		assert.Len(t, fetchLedger(t).Feed, 3)
	})

	t.Run("client can delete their own payment", func(t *testing.T) {
		s := seed(t)

		resp := makeRequestAs(identity.RoleClient, "DELETE", "/api/entries/payment/"+s.clientPayment, nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		for _, item := range fetchLedger(t).Feed {
			assert.NotEqual(t, s.clientPayment, item.ID())
		}
	})

	t.Run("client cannot delete the provider's payment", func(t *testing.T) {
		s := seed(t)

		resp := makeRequestAs(identity.RoleClient, "DELETE", "/api/entries/payment/"+s.otherPayment, nil)

		assertStatusCode(t, http.StatusForbidden, resp.Code)
		assert.Len(t, fetchLedger(t).Feed, 3)
	})

	t.Run("client gets not found for unknown payments", func(t *testing.T) {
		seed(t)

		resp := makeRequestAs(identity.RoleClient, "DELETE", "/api/entries/payment/does-not-exist", nil)

		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})

	t.Run("provider can delete anything", func(t *testing.T) {
		s := seed(t)

		for _, path := range []string{
			"/api/entries/cost/" + s.costID,
			"/api/entries/PAYMENT/" + s.clientPayment,
			"/api/entries/payment/" + s.otherPayment,
		} {
			resp := makeRequestAs(identity.RoleProvider, "DELETE", path, nil)
			assertStatusCode(t, http.StatusOK, resp.Code)
		}

		assert.Empty(t, fetchLedger(t).Feed)
	})

	t.Run("should mirror deletes with only identifying fields", func(t *testing.T) {
		s := seed(t)
		useWebhook(t)

		resp := makeRequestAs(identity.RoleProvider, "DELETE", "/api/entries/cost/"+s.costID, nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		posts := testWebhook.received()
		require.Len(t, posts, 1)
		assert.Equal(t, map[string]interface{}{"id": s.costID, "entryType": "COST", "action": "DELETE"}, posts[0])
	})

	t.Run("should reject unknown kinds", func(t *testing.T) {
		s := seed(t)

		resp := makeRequestAs(identity.RoleProvider, "DELETE", "/api/entries/refund/"+s.costID, nil)

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestGetLedger tests the GET /api/ledger endpoint
func TestGetLedger(t *testing.T) {
	t.Run("should return an empty ledger", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		ledgerResp := fetchLedger(t)

		assert.Empty(t, ledgerResp.Feed)
		assert.Equal(t, 100.0, ledgerResp.Summary.PercentCleared)
		assert.Equal(t, ledger.StatusSettled, ledgerResp.Overview.Status)
		assert.Equal(t, ledger.SourceLocal, ledgerResp.Source)
	})

	t.Run("should merge the feed newest first with rounded totals", func(t *testing.T) {
		require.NoError(t, cleanupTestData())

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{
			"amount": 1000, "extra_charges": 200,
		}))
		assertStatusCode(t, http.StatusCreated, resp.Code)
		resp = makeRequestAs(identity.RoleClient, "POST", "/api/payments", jsonBody(t, map[string]interface{}{
			"amount": 500,
		}))
		assertStatusCode(t, http.StatusCreated, resp.Code)

		ledgerResp := fetchLedger(t)

		require.Len(t, ledgerResp.Feed, 2)
		assert.False(t, ledgerResp.Feed[0].Timestamp().Before(ledgerResp.Feed[1].Timestamp()))
		assert.Equal(t, 1200.0, ledgerResp.Summary.TotalCost)
		assert.Equal(t, 500.0, ledgerResp.Summary.TotalPaid)
		assert.Equal(t, -700.0, ledgerResp.Summary.Balance)
		assert.Equal(t, 41.67, ledgerResp.Summary.PercentCleared)
		assert.Equal(t, ledger.StatusPending, ledgerResp.Overview.Status)
		assert.Equal(t, 2, ledgerResp.Overview.EntryCount)
	})

	t.Run("should prefer the remote endpoint when configured", func(t *testing.T) {
		require.NoError(t, cleanupTestData())
		useWebhook(t)
		testWebhook.serve(
			`[{"id":"r1","amount":"Rs. 1,200.50","desc":"Remote work","date":"2025-01-02T10:00:00Z"}]`,
			`[{"id":"r2","amount":200,"addedBy":"Ravi","date":"2025-01-03T10:00:00Z"}]`,
		)

		ledgerResp := fetchLedger(t)

		assert.Equal(t, ledger.SourceRemote, ledgerResp.Source)
		require.Len(t, ledgerResp.Feed, 2)
		assert.Equal(t, "r2", ledgerResp.Feed[0].ID())
		assert.Equal(t, 1200.5, ledgerResp.Feed[1].Cost.BaseAmount)
		assert.Equal(t, "Remote work", ledgerResp.Feed[1].Cost.Description)
	})

	t.Run("should fall back to local data when the remote fails", func(t *testing.T) {
		require.NoError(t, cleanupTestData())
		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{"amount": 10}))
		assertStatusCode(t, http.StatusCreated, resp.Code)
		useWebhook(t)
		testWebhook.fail()

		ledgerResp := fetchLedger(t)

		assert.Equal(t, ledger.SourceLocal, ledgerResp.Source)
		assert.Len(t, ledgerResp.Feed, 1)
	})

	t.Run("should serve the cached snapshot without refresh", func(t *testing.T) {
		require.NoError(t, cleanupTestData())
		fetchLedger(t)

		resp := makeRequestAs(identity.RoleProvider, "POST", "/api/costs", jsonBody(t, map[string]interface{}{"amount": 10}))
		assertStatusCode(t, http.StatusCreated, resp.Code)

		cached := makeRequest("GET", "/api/ledger", nil)
		assertStatusCode(t, http.StatusOK, cached.Code)
		var ledgerResp LedgerResponse
		require.NoError(t, parseJSONResponse(cached, &ledgerResp))
		assert.Empty(t, ledgerResp.Feed)

		assert.Len(t, fetchLedger(t).Feed, 1)
	})
}

// TestSyncLedger tests the POST /api/sync endpoint
func TestSyncLedger(t *testing.T) {
	require.NoError(t, cleanupTestData())

	t.Run("should start a reload", func(t *testing.T) {
		resp := makeRequest("POST", "/api/sync", nil)

		assertStatusCode(t, http.StatusAccepted, resp.Code)

		var syncResp SyncResponse
		require.NoError(t, parseJSONResponse(resp, &syncResp))
		assert.True(t, syncResp.Started)
	})
}
