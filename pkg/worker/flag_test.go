package worker

import "testing"

func TestFlag_SetClear(t *testing.T) {
	var f Flag

	if f.IsSet() {
		t.Error("zero Flag should be clear")
	}

	f.Set()
	if !f.IsSet() {
		t.Error("IsSet() = false after Set")
	}

	f.Clear()
	if f.IsSet() {
		t.Error("IsSet() = true after Clear")
	}
}

func TestStopSet_Raised(t *testing.T) {
	var a, b Flag

	tests := []struct {
		name   string
		setA   bool
		setB   bool
		raised bool
	}{
		{"none raised", false, false, false},
		{"first raised", true, false, true},
		{"second raised", false, true, true},
		{"both raised", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Clear()
			b.Clear()
			if tt.setA {
				a.Set()
			}
			if tt.setB {
				b.Set()
			}

			s := StopSet{&a, &b}
			if s.Raised() != tt.raised {
				t.Errorf("Raised() = %v, want %v", s.Raised(), tt.raised)
			}
		})
	}
}

func TestStopSet_Empty(t *testing.T) {
	if (StopSet{}).Raised() {
		t.Error("empty StopSet should not be raised")
	}
}
