package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maildeck/maildeck/pkg/models"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		rule        *models.MonitoringRule
		wantKeyword string
		wantMatch   bool
	}{
		{
			name:    "first keyword in list order wins",
			subject: "URGENT: Invoice due",
			rule: &models.MonitoringRule{
				Keywords: []string{"invoice", "urgent"},
			},
			wantKeyword: "invoice",
			wantMatch:   true,
		},
		{
			name:    "case sensitive rejects different casing",
			subject: "Urgent request",
			rule: &models.MonitoringRule{
				Keywords:      []string{"invoice", "urgent"},
				CaseSensitive: true,
			},
			wantMatch: false,
		},
		{
			name:    "case sensitive accepts exact casing",
			subject: "urgent request",
			rule: &models.MonitoringRule{
				Keywords:      []string{"urgent"},
				CaseSensitive: true,
			},
			wantKeyword: "urgent",
			wantMatch:   true,
		},
		{
			name:    "substring match is not token aware",
			subject: "your coupons expire soon",
			rule: &models.MonitoringRule{
				Keywords: []string{"coupon"},
			},
			wantKeyword: "coupon",
			wantMatch:   true,
		},
		{
			name:    "matched keyword keeps its stored casing",
			subject: "payment received",
			rule: &models.MonitoringRule{
				Keywords: []string{"PayMent"},
			},
			wantKeyword: "PayMent",
			wantMatch:   true,
		},
		{
			name:    "no keyword matches",
			subject: "weekly newsletter",
			rule: &models.MonitoringRule{
				Keywords: []string{"invoice", "urgent"},
			},
			wantMatch: false,
		},
		{
			name:    "empty keywords never match",
			subject: "anything",
			rule: &models.MonitoringRule{
				Keywords: []string{""},
			},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyword, ok := Match(tt.subject, tt.rule)
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.wantKeyword, keyword)
		})
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	rule := &models.MonitoringRule{Keywords: []string{"alpha", "beta"}}
	for i := 0; i < 10; i++ {
		keyword, ok := Match("beta then alpha", rule)
		assert.True(t, ok)
		assert.Equal(t, "alpha", keyword)
	}
}
