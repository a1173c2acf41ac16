package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stroymart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDebtReminder(t *testing.T) {
	svc, err := NewSMSService("http://localhost:9090/send", "token")
	require.NoError(t, err)

	debtor := &models.Debtor{
		Amount:  decimal.NewFromInt(150000),
		DueDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	message, err := svc.RenderDebtReminder(debtor)
	assert.NoError(t, err)
	assert.Contains(t, message, "150000")
	assert.Contains(t, message, "15.03.2026")
}

func TestSend_PostsBearerAuthorizedJSON(t *testing.T) {
	var got smsPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewSMSService(server.URL, "secret-token")
	require.NoError(t, err)

	err = svc.Send(context.Background(), "+998901234567", "test message")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "+998901234567", got.MobilePhone)
	assert.Equal(t, "test message", got.Message)
}

func TestSend_GatewayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc, err := NewSMSService(server.URL, "token")
	require.NoError(t, err)

	err = svc.Send(context.Background(), "+998901234567", "test")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
