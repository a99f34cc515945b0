package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/pkg/constants"
	"callcenter-crm/pkg/utils"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseOutcomeInput_ValidationMatrix(t *testing.T) {
	loc := time.UTC

	t.Run("sale requires note, order value and next call", func(t *testing.T) {
		_, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{Status: constants.StatusSale}, loc)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "note")
		assert.Contains(t, verr.Fields, "order_value")
		assert.Contains(t, verr.Fields, "next_call_at")
	})

	t.Run("negative order value is rejected", func(t *testing.T) {
		_, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{
			Status:       constants.StatusSale,
			Note:         "ok",
			OrderValue:   decPtr("-1"),
			NextCallDate: "01.12.2025",
			NextCallTime: "10:00",
		}, loc)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "order_value")
		assert.NotContains(t, verr.Fields, "note")
	})

	t.Run("partial date time pair is rejected", func(t *testing.T) {
		_, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{
			Status:       constants.StatusCallLater,
			Note:         "call back",
			NextCallDate: "01.12.2025",
		}, loc)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "next_call_at")
	})

	t.Run("transfer requires a target operator", func(t *testing.T) {
		_, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{
			Status: constants.StatusTransfer,
			Note:   "for Jana",
		}, loc)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "transfer_to_operator")
	})

	t.Run("no answer needs nothing", func(t *testing.T) {
		in, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{Status: constants.StatusNoAnswer}, loc)
		require.Nil(t, verr)
		assert.Nil(t, in.DeferUntil)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{Status: "voicemail"}, loc)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "status")
	})

	t.Run("valid sale parses cleanly", func(t *testing.T) {
		in, verr := parseOutcomeInput(dto.SubmitCallOutcomeDTO{
			Status:       constants.StatusSale,
			Note:         "ok",
			OrderValue:   decPtr("1500"),
			NextCallDate: "01.12.2025",
			NextCallTime: "10:00",
		}, loc)
		require.Nil(t, verr)
		require.NotNil(t, in.NextCallAt)
		assert.Equal(t, time.Date(2025, 12, 1, 10, 0, 0, 0, loc), *in.NextCallAt)
	})
}

func activeContact() *entities.Contact {
	return &entities.Contact{
		ID:             1,
		LastName:       "Novák",
		Active:         true,
		NoAnswerStreak: 2,
		LockedByID:     null.Uint64From(7),
	}
}

func TestApplyTransition_Sale(t *testing.T) {
	now := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC)
	next := now.AddDate(0, 0, 1)
	c := activeContact()

	rec := applyTransition(c, outcomeInput{
		Status:     constants.StatusSale,
		Note:       "ok",
		OrderValue: decPtr("1500"),
		NextCallAt: &next,
	}, 7, now)

	assert.True(t, c.Active)
	assert.Equal(t, 0, c.NoAnswerStreak)
	assert.Equal(t, now, c.LastSaleAt.Time)
	assert.Equal(t, uint64(7), c.AssignedOperatorID.Uint64)

	assert.Equal(t, constants.ActionConnected, rec.ActionType)
	assert.True(t, rec.OrderValue.Valid)
	assert.True(t, rec.OrderValue.Decimal.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, next, rec.ScheduledCallAt.Time)
}

func TestApplyTransition_NoInterest(t *testing.T) {
	now := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC)
	c := activeContact()
	c.AssignedOperatorID = null.Uint64From(7)

	rec := applyTransition(c, outcomeInput{Status: constants.StatusNoInterest, Note: "not interested"}, 7, now)

	assert.False(t, c.Active)
	assert.Equal(t, utils.DateOnly(now).AddDate(0, 0, 90), c.DeactivatedUntil.Time)
	assert.False(t, c.AssignedOperatorID.Valid)
	assert.Equal(t, 0, c.NoAnswerStreak)
	assert.Equal(t, constants.ActionUnconnected, rec.ActionType)
}

func TestApplyTransition_NonexistentNumber(t *testing.T) {
	now := time.Now()
	c := activeContact()

	applyTransition(c, outcomeInput{Status: constants.StatusNonexistent}, 7, now)

	assert.True(t, c.PermanentlyBlocked)
	assert.False(t, c.Active)
	assert.False(t, c.AssignedOperatorID.Valid)
}

func TestApplyTransition_VIPAdd(t *testing.T) {
	now := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC)
	next := now.AddDate(0, 0, 2)
	c := activeContact()
	c.Active = false

	rec := applyTransition(c, outcomeInput{
		Status:     constants.StatusVIPAdd,
		Note:       "new vip",
		OrderValue: decPtr("250.50"),
		NextCallAt: &next,
	}, 9, now)

	assert.True(t, c.VIP)
	assert.Equal(t, now, c.VIPAddedAt.Time)
	assert.True(t, c.Active)
	assert.Equal(t, uint64(9), c.AssignedOperatorID.Uint64)
	assert.Equal(t, constants.ActionConnected, rec.ActionType)
}

func TestApplyTransition_NoAnswer(t *testing.T) {
	now := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC) // Wednesday

	t.Run("default parks the contact until next Monday", func(t *testing.T) {
		c := activeContact()
		c.NoAnswerStreak = 0

		applyTransition(c, outcomeInput{Status: constants.StatusNoAnswer}, 7, now)

		assert.Equal(t, 1, c.NoAnswerStreak)
		assert.False(t, c.Active)
		assert.Equal(t, utils.NextMonday(now), c.DeactivatedUntil.Time)
	})

	t.Run("deferral keeps the contact active and assigned", func(t *testing.T) {
		c := activeContact()
		c.NoAnswerStreak = 0
		deferUntil := now.Add(3 * time.Hour)

		rec := applyTransition(c, outcomeInput{Status: constants.StatusNoAnswer, DeferUntil: &deferUntil}, 7, now)

		assert.True(t, c.Active)
		assert.Equal(t, uint64(7), c.AssignedOperatorID.Uint64)
		assert.Equal(t, deferUntil, rec.ScheduledCallAt.Time)
	})

	t.Run("deferral reactivates a dormant contact", func(t *testing.T) {
		c := activeContact()
		c.Active = false
		c.DeactivatedUntil = null.TimeFrom(now.AddDate(0, 0, 5))
		c.NoAnswerStreak = 1
		deferUntil := now.Add(3 * time.Hour)

		rec := applyTransition(c, outcomeInput{Status: constants.StatusNoAnswer, DeferUntil: &deferUntil}, 7, now)

		assert.True(t, c.Active)
		assert.False(t, c.DeactivatedUntil.Valid)
		assert.Equal(t, uint64(7), c.AssignedOperatorID.Uint64)
		assert.Equal(t, deferUntil, rec.ScheduledCallAt.Time)
	})

	t.Run("seventh strike deactivates even with deferral", func(t *testing.T) {
		c := activeContact()
		c.NoAnswerStreak = 6
		deferUntil := now.Add(3 * time.Hour)

		rec := applyTransition(c, outcomeInput{Status: constants.StatusNoAnswer, DeferUntil: &deferUntil}, 7, now)

		assert.Equal(t, 7, c.NoAnswerStreak)
		assert.False(t, c.Active)
		assert.False(t, rec.ScheduledCallAt.Valid)
	})

	t.Run("already dormant contact is left untouched", func(t *testing.T) {
		c := activeContact()
		c.Active = false
		until := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		c.DeactivatedUntil = null.TimeFrom(until)
		c.NoAnswerStreak = 1

		applyTransition(c, outcomeInput{Status: constants.StatusNoAnswer}, 7, now)

		assert.Equal(t, 2, c.NoAnswerStreak)
		assert.False(t, c.Active)
		assert.Equal(t, until, c.DeactivatedUntil.Time)
	})
}

func TestApplyTransition_StreakResetOnOtherOutcome(t *testing.T) {
	now := time.Now()
	c := activeContact()
	c.NoAnswerStreak = 6

	applyTransition(c, outcomeInput{Status: constants.StatusCallLater, Note: "later", NextCallAt: &now}, 7, now)

	assert.Equal(t, 0, c.NoAnswerStreak)
	assert.True(t, c.Active)
}

func TestApplyTransition_Transfer(t *testing.T) {
	now := time.Now()
	target := uint64(12)
	deferUntil := now.Add(2 * time.Hour)
	c := activeContact()
	c.Active = false

	rec := applyTransition(c, outcomeInput{
		Status:     constants.StatusTransfer,
		Note:       "knows the customer",
		TransferTo: &target,
		DeferUntil: &deferUntil,
	}, 7, now)

	assert.True(t, c.Active)
	assert.Equal(t, target, c.AssignedOperatorID.Uint64)
	assert.Equal(t, constants.ActionInternal, rec.ActionType)
	assert.Equal(t, deferUntil, rec.ScheduledCallAt.Time)
}

func TestApplyTransition_NotSpokenToDM(t *testing.T) {
	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC) // Monday
	c := activeContact()
	c.AssignedOperatorID = null.Uint64From(7)

	rec := applyTransition(c, outcomeInput{Status: constants.StatusNotSpokenDM}, 7, now)

	assert.False(t, c.Active)
	// A Monday submission parks until the following Monday.
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), c.DeactivatedUntil.Time)
	assert.False(t, c.AssignedOperatorID.Valid)
	assert.Equal(t, constants.ActionConnected, rec.ActionType)
}
