package list_reservations

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{
		"roomId":          {"7"},
		"status":          {"pending"},
		"date":            {"2025-03-10"},
		"includeInactive": {"true"},
		"limit":           {"20"},
	})
	require.NoError(t, err)

	day := types.Date{Year: 2025, Month: time.March, Day: 10}
	require.NotNil(t, req.RoomID)
	assert.Equal(t, int64(7), *req.RoomID)
	assert.Equal(t, "pending", *req.Status)
	assert.Equal(t, day, *req.From)
	assert.Equal(t, day, *req.To)
	assert.True(t, req.IncludeInactive)
	assert.Equal(t, 20, req.Limit)
}

func TestToServiceRequest_Period(t *testing.T) {
	req, err := ToServiceRequest(url.Values{"from": {"2025-03-10"}, "to": {"2025-03-12"}})
	require.NoError(t, err)

	assert.Equal(t, 10, req.From.Day)
	assert.Equal(t, 12, req.To.Day)
	assert.Nil(t, req.RoomID)
	assert.Nil(t, req.Status)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{"roomId": {"x"}},
		{"date": {"10.03.2025"}},
		{"from": {"2025-02-30"}},
		{"includeInactive": {"maybe"}},
		{"limit": {"ten"}},
	} {
		_, err := ToServiceRequest(q)
		assert.Error(t, err, q.Encode())
	}
}
