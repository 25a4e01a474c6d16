package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

func TestAppointment_StartTime(t *testing.T) {
	appt := &model.Appointment{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeOfDay: "10:00",
	}

	start, err := appt.StartTime()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), start)

	end, err := appt.EndTime()
	require.NoError(t, err)
	require.Equal(t, start.Add(time.Hour), end)
}

func TestAppointment_StartTime_Invalid(t *testing.T) {
	for _, tod := range []string{"", "10", "25:00", "10:61", "ten:00"} {
		appt := &model.Appointment{Date: time.Now(), TimeOfDay: tod}
		_, err := appt.StartTime()
		require.Error(t, err, "time of day %q should be rejected", tod)
	}
}

func TestAppointment_ActiveAt(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	appt := &model.Appointment{Date: day, TimeOfDay: "10:00"}

	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	require.False(t, appt.ActiveAt(at(9, 59)))
	require.True(t, appt.ActiveAt(at(10, 0)))
	require.True(t, appt.ActiveAt(at(10, 30)))
	require.True(t, appt.ActiveAt(at(11, 0)))
	require.False(t, appt.ActiveAt(at(11, 1)))
}

func TestValidAppointmentStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "ongoing", "completed", "canceled"} {
		require.True(t, model.ValidAppointmentStatus(status))
	}
	require.False(t, model.ValidAppointmentStatus("cancelled"))
	require.False(t, model.ValidAppointmentStatus(""))
}
