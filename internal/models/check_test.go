package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodUnitsDuration(t *testing.T) {
	tests := []struct {
		units PeriodUnits
		n     int
		want  time.Duration
	}{
		{PeriodUnitsMinutes, 5, 5 * time.Minute},
		{PeriodUnitsHours, 1, time.Hour},
		{PeriodUnitsHours, 24, 24 * time.Hour},
		{PeriodUnitsDays, 2, 48 * time.Hour},
		{PeriodUnitsDays, 0, 0},
	}

	for _, tt := range tests {
		got, err := tt.units.Duration(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPeriodUnitsDuration_Unknown(t *testing.T) {
	_, err := PeriodUnits("FORTNIGHTS").Duration(1)
	assert.Error(t, err)
}

func TestCheckStatusScan(t *testing.T) {
	var s CheckStatus
	require.NoError(t, s.Scan("UP"))
	assert.Equal(t, CheckStatusUp, s)

	require.NoError(t, s.Scan([]byte("DOWN")))
	assert.Equal(t, CheckStatusDown, s)

	require.NoError(t, s.Scan("CREATED"))
	assert.Equal(t, CheckStatusCreated, s)
}

func TestCheckStatusScan_CorruptValueFailsLoudly(t *testing.T) {
	var s CheckStatus
	assert.Error(t, s.Scan("PAUSED"))
	assert.Error(t, s.Scan(nil))
	assert.Error(t, s.Scan(42))
}

func TestDeliveryStatusScan(t *testing.T) {
	var s DeliveryStatus
	require.NoError(t, s.Scan("QUEUED"))
	assert.Equal(t, DeliveryStatusQueued, s)

	assert.Error(t, s.Scan("SENT"))
}

func TestChannelTypeScan(t *testing.T) {
	var ct ChannelType
	require.NoError(t, ct.Scan("WEBHOOK"))
	assert.Equal(t, ChannelTypeWebhook, ct)

	assert.Error(t, ct.Scan("SMS"))
}

func TestScheduleTypeScan(t *testing.T) {
	var st ScheduleType
	require.NoError(t, st.Scan("CRON"))
	assert.Equal(t, ScheduleTypeCron, st)

	assert.Error(t, st.Scan("INTERVAL"))
}
