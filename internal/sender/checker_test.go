package sender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsSystem(t *testing.T) {
	c := NewChecker([]string{"noreply", " Mailer-Daemon ", ""}, []string{"Alerts.Example.com"}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"noreply@vendor.com", true},
		{"Billing <NoReply@vendor.com>", true},
		{"MAILER-DAEMON@mx.example.net", true},
		{"ops@alerts.example.com", true},
		{"ops@eu.alerts.example.com", true},
		{"jane@example.com", false},
		{"jane@notalerts.example.com", false},
		{"", false},
		{"not an address", false},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsSystem(tt.from))
		})
	}
}

func TestIsSystemWithoutLists(t *testing.T) {
	c := NewChecker(nil, nil, nil)

	assert.False(t, c.IsSystem("noreply@vendor.com"))
}
