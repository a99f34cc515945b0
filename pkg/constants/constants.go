package constants

// Call outcome statuses reported by operators.
const (
	StatusNoAnswer     = "no_answer"
	StatusNoInterest   = "no_interest"
	StatusNonexistent  = "nonexistent_number"
	StatusNotRelevant  = "not_relevant"
	StatusNotSpokenDM  = "not_spoken_to_dm"
	StatusSale         = "sale"
	StatusVIPAdd       = "vip_add"
	StatusCallLater    = "call_later"
	StatusTransfer     = "transfer_to_operator"
)

// Action types classify a history record for reporting,
// independent of the detailed status.
const (
	ActionConnected   = "connected"
	ActionUnconnected = "unconnected"
	ActionInternal    = "internal"
)

const (
	// A call-session lock older than this is stale and reclaimable.
	LockTTLMinutes = 60

	// Streak of consecutive no-answer outcomes that deactivates a contact.
	NoAnswerDeactivateAt = 7

	// Tier 3c admits only contacts with a streak below this value.
	NoAnswerFreshPoolLimit = 3

	// Assignment is cleared this many days after the last sale.
	UnassignAfterSaleDays = 90

	// A no-interest outcome makes the contact dormant for this many days.
	NoInterestDormantDays = 90
)

var outcomeStatuses = map[string]struct{}{
	StatusNoAnswer:    {},
	StatusNoInterest:  {},
	StatusNonexistent: {},
	StatusNotRelevant: {},
	StatusNotSpokenDM: {},
	StatusSale:        {},
	StatusVIPAdd:      {},
	StatusCallLater:   {},
	StatusTransfer:    {},
}

func IsOutcomeStatus(s string) bool {
	_, ok := outcomeStatuses[s]
	return ok
}
