package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-api/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateJWT(42)
	require.NoError(t, err)

	claims, err := tm.ParseJWT(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.GenerateJWT(1)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenManager("secret", -time.Minute).GenerateJWT(1)
	require.NoError(t, err)
	_, err = tm.ParseJWT(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseJWT("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	_, err = NewLogger(&buf, "loud", "json")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestEmailService_WithoutTokenOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	es := NewEmailService("", "shop@example.com", zerolog.New(&buf))

	order := models.Order{ID: 7, NetAmount: decimal.RequireFromString("25"), Status: models.StatusPending}
	require.NoError(t, es.SendOrderConfirmationEmail("a@example.com", order))
	assert.Contains(t, buf.String(), "a@example.com")
	assert.Contains(t, buf.String(), "Order Confirmation")
}

func TestOrderEmails(t *testing.T) {
	order := models.Order{ID: 7, NetAmount: decimal.RequireFromString("25"), Status: models.StatusCancelled}

	_, body := OrderConfirmationEmail(order)
	assert.Contains(t, body, "(ID: 7)")
	assert.Contains(t, body, "$25.00")
	assert.Contains(t, body, "your address on file")

	subject, body := OrderStatusEmail(order)
	assert.Equal(t, "Order #7: CANCELLED", subject)
	assert.True(t, strings.Contains(body, "CANCELLED"))
}
