package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DeliveryStatus
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusInDelivery, false},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusInDelivery, true},
		{StatusPreparing, StatusDelivered, false},
		{StatusPreparing, StatusPending, false},
		{StatusInDelivery, StatusDelivered, true},
		{StatusInDelivery, StatusPreparing, false},
		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusInDelivery, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPreparing, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
		{"", StatusPending, false},
		{StatusPending, "", false},
		{StatusPending, "shipped", false},
	}
	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []DeliveryStatus{StatusPending, StatusPreparing, StatusInDelivery} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
	for _, s := range []DeliveryStatus{StatusDelivered, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%q should be terminal", s)
		}
	}
}
