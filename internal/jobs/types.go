package jobs

import "time"

// Status はスキャン実行の状態を表します。
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "done"
	StatusFailed    Status = "error"
)

// OverdueEntry は延滞中の貸出1件の要約です。
type OverdueEntry struct {
	CheckoutID int64     `json:"checkoutId"`
	UserID     int64     `json:"userId"`
	BookID     int64     `json:"bookId"`
	DueDate    time.Time `json:"dueDate"`
}

// SweepRecord は延滞スキャン1回分の実行結果を表します。
type SweepRecord struct {
	RunID        string         `json:"runId"`
	Status       Status         `json:"status"`
	OverdueCount int            `json:"overdueCount"`
	Entries      []OverdueEntry `json:"entries,omitempty"`
	Error        string         `json:"error,omitempty"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
}
