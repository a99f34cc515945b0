package dto

// ImportResultDTO summarizes one import run. Batch is the shared import
// timestamp stamped on every contact created by the run.
type ImportResultDTO struct {
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Batch   string `json:"batch,omitempty"`
	File    string `json:"file,omitempty"`
}

// CleanupResultDTO reports what one maintenance sweep touched.
type CleanupResultDTO struct {
	Deactivated   int64 `json:"deactivated"`
	Unassigned    int64 `json:"unassigned"`
	LocksReleased int64 `json:"locks_released"`
}
