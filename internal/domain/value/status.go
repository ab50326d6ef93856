package value

import (
	"fmt"
	"strings"
)

// Status выставляется пользователем и не выводится из дат.
type Status string

const (
	StatusActive       Status = "Active"
	StatusInactive     Status = "Inactive"
	StatusRefundable   Status = "Refundable"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusExpired      Status = "Expired"
)

func Statuses() []Status {
	return []Status{
		StatusActive,
		StatusRefundable,
		StatusExpired,
		StatusExpiringSoon,
		StatusInactive,
	}
}

// ParseStatus без учёта регистра приводит строку к каноническому статусу.
func ParseStatus(s string) (Status, error) {
	needle := strings.TrimSpace(s)

	for _, status := range Statuses() {
		if strings.EqualFold(needle, string(status)) {
			return status, nil
		}
	}

	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) String() string {
	return string(s)
}
