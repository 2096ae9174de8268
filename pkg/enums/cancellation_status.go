package enums

import "fmt"

// CancellationStatus drives the cancellation sub-workflow independently of
// the order status.
type CancellationStatus string

const (
	CancellationStatusPending  CancellationStatus = "Pending"
	CancellationStatusApproved CancellationStatus = "Approved"
	CancellationStatusRejected CancellationStatus = "Rejected"
)

var validCancellationStatuses = []CancellationStatus{
	CancellationStatusPending,
	CancellationStatusApproved,
	CancellationStatusRejected,
}

// String implements fmt.Stringer.
func (c CancellationStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CancellationStatus.
func (c CancellationStatus) IsValid() bool {
	for _, candidate := range validCancellationStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCancellationStatus converts raw input into a CancellationStatus.
func ParseCancellationStatus(value string) (CancellationStatus, error) {
	for _, candidate := range validCancellationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cancellation status %q", value)
}
