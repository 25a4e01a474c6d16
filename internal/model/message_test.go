package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

func TestRoomID_Symmetric(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	require.Equal(t, model.RoomID(a, b), model.RoomID(b, a))
	require.NotEqual(t, model.RoomID(a, b), model.RoomID(a, uuid.New()))
}
