package enums

import "fmt"

// CashbackStatus tracks a wallet cashback request from promise to credit.
type CashbackStatus string

const (
	CashbackStatusPending  CashbackStatus = "pending"
	CashbackStatusApproved CashbackStatus = "approved"
)

var validCashbackStatuses = []CashbackStatus{
	CashbackStatusPending,
	CashbackStatusApproved,
}

// String implements fmt.Stringer.
func (c CashbackStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CashbackStatus.
func (c CashbackStatus) IsValid() bool {
	for _, candidate := range validCashbackStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCashbackStatus converts raw input into a CashbackStatus.
func ParseCashbackStatus(value string) (CashbackStatus, error) {
	for _, candidate := range validCashbackStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashback status %q", value)
}
