// Package outcome defines the tagged result type the booking core returns.
// Business conflicts, contention and storage faults are values the caller
// branches on, never errors thrown across the coordinator boundary.
package outcome

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusRetry     Status = "RETRY"
	StatusFailed    Status = "FAILED"
)

// Reason is the machine-readable code accompanying every non-confirmed
// outcome. Callers must branch on Reason, not on Detail.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonValidation       Reason = "VALIDATION"
	ReasonPastDate         Reason = "PAST_DATE"
	ReasonNotAvailable     Reason = "NOT_AVAILABLE"
	ReasonAlreadyBooked    Reason = "ALREADY_BOOKED"
	ReasonInProgress       Reason = "IN_PROGRESS"
	ReasonNotFound         Reason = "NOT_FOUND"
	ReasonAlreadyCancelled Reason = "ALREADY_CANCELLED"
	ReasonStorageFault     Reason = "STORAGE_FAULT"
	ReasonInternal         Reason = "INTERNAL"
)

type Outcome struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func Confirmed() Outcome {
	return Outcome{Status: StatusConfirmed}
}

// Rejected is a definitive business rejection. Retrying the same intent
// cannot succeed until the underlying state changes.
func Rejected(reason Reason, detail string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason, Detail: detail}
}

// Retry signals contention: another operation currently holds the slot
// lock. The caller may retry the same intent after a backoff.
func Retry(detail string) Outcome {
	return Outcome{Status: StatusRetry, Reason: ReasonInProgress, Detail: detail}
}

// Failed is an unexpected or storage-level fault. All writes of the
// operation have been rolled back; a retry is safe because the active-entry
// check is authoritative on the next attempt.
func Failed(reason Reason, detail string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason, Detail: detail}
}

func (o Outcome) IsConfirmed() bool {
	return o.Status == StatusConfirmed
}

// Retryable reports whether the caller may retry the same intent.
// Contention and storage faults are retryable; business rejections are not.
func (o Outcome) Retryable() bool {
	switch o.Status {
	case StatusRetry:
		return true
	case StatusFailed:
		return o.Reason == ReasonStorageFault
	default:
		return false
	}
}
