package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_RoundTrip(t *testing.T) {
	value, err := Tags{"shoes", "sport"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "shoes,sport", value)

	var tags Tags
	require.NoError(t, tags.Scan([]byte("shoes,sport")))
	assert.Equal(t, Tags{"shoes", "sport"}, tags)
}

func TestTags_CommaIsNotStorable(t *testing.T) {
	tags := Tags{"black,white", "pen"}
	assert.False(t, tags.Valid())
	_, err := tags.Value()
	assert.Error(t, err)

	assert.False(t, Tags{""}.Valid())
	assert.True(t, Tags{}.Valid())
	assert.True(t, Tags(nil).Valid())
}

func TestTags_ScanEmpty(t *testing.T) {
	var tags Tags
	require.NoError(t, tags.Scan(nil))
	assert.Empty(t, tags)

	require.NoError(t, tags.Scan(""))
	assert.Empty(t, tags)

	assert.Error(t, tags.Scan(42))
}

func TestAddress_FormattedAddress(t *testing.T) {
	a := Address{LineOne: "12 Main St", LineTwo: "Flat 3", City: "Pune", Country: "India", Pincode: "41101"}
	assert.Equal(t, "12 Main St, Flat 3, Pune, India-41101", a.FormattedAddress())

	a.LineTwo = ""
	assert.Equal(t, "12 Main St, Pune, India-41101", a.FormattedAddress())
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusAccepted, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusAccepted, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("ROOT").Valid())
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleUser}.IsAdmin())
}
