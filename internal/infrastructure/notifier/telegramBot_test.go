package notifier_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
	"ltd_tracker/internal/infrastructure/notifier"
)

func TestReminderText(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		reminder entity.RefundReminder
		contains []string
	}{
		{
			name: "Urgent tomorrow",
			reminder: entity.RefundReminder{
				DealID:         "d1",
				Name:           "DesignPro Suite",
				Marketplace:    value.MarketplaceAppSumo,
				Price:          decimal.NewFromInt(69),
				RefundDeadline: value.MustParseDate("2023-11-14"),
				DaysLeft:       1,
				Urgent:         true,
			},
			contains: []string{"Refund deadline is close", "DesignPro Suite", "AppSumo", "$69.00", "2023-11-14 (tomorrow)"},
		},
		{
			name: "Escapes html",
			reminder: entity.RefundReminder{
				Name:           "<Tools & Co>",
				Marketplace:    value.MarketplaceOther,
				Price:          decimal.RequireFromString("9.5"),
				RefundDeadline: value.MustParseDate("2024-01-31"),
				DaysLeft:       10,
			},
			contains: []string{"Refund deadline approaching", "&lt;Tools &amp; Co&gt;", "$9.50", "in 10 days"},
		},
		{
			name: "Today",
			reminder: entity.RefundReminder{
				Name:           "X",
				RefundDeadline: value.MustParseDate("2024-01-31"),
				Urgent:         true,
			},
			contains: []string{"2024-01-31 (today)"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			text := notifier.ReminderText(tc.reminder)

			for _, part := range tc.contains {
				rq.Contains(text, part)
			}
		})
	}
}
