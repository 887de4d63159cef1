package quota

import "testing"

func TestCanCreate(t *testing.T) {
	tests := []struct {
		name         string
		isSubscribed bool
		count        int
		want         bool
	}{
		{name: "free user below limit", isSubscribed: false, count: 0, want: true},
		{name: "free user one below limit", isSubscribed: false, count: 2, want: true},
		{name: "free user at limit", isSubscribed: false, count: 3, want: false},
		{name: "free user above limit", isSubscribed: false, count: 7, want: false},
		{name: "subscriber at limit", isSubscribed: true, count: 3, want: true},
		{name: "subscriber far above limit", isSubscribed: true, count: 100, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreate(tt.isSubscribed, tt.count); got != tt.want {
				t.Errorf("CanCreate(%v, %d) = %v, want %v", tt.isSubscribed, tt.count, got, tt.want)
			}
		})
	}
}
