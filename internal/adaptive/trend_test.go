package adaptive

import "testing"

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   Trend
	}{
		{"empty", nil, TrendInsufficientData},
		{"four records", []int{1, 2, 9, 10}, TrendInsufficientData},
		{"stable half point", []int{8, 9, 10, 9, 8}, TrendStable},
		{"improving", []int{2, 3, 6, 7, 8}, TrendImproving},
		{"declining", []int{9, 9, 5, 4, 3}, TrendDeclining},
		{"exactly one above is stable", []int{5, 5, 6, 6, 6}, TrendStable},
		{"only last five count", []int{0, 0, 0, 8, 9, 10, 9, 8}, TrendStable},
		{"old history ignored", []int{10, 10, 10, 1, 1, 6, 7, 8}, TrendImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTrend(tt.scores); got != tt.want {
				t.Errorf("ClassifyTrend(%v) = %q, want %q", tt.scores, got, tt.want)
			}
		})
	}
}

func TestReadyForHigher(t *testing.T) {
	tests := []struct {
		scores []int
		want   bool
	}{
		{nil, false},
		{[]int{10, 10}, false},
		{[]int{8, 8, 8}, true},
		{[]int{2, 8, 9, 10}, true},
		{[]int{8, 7, 9}, false},
	}
	for _, tt := range tests {
		if got := ReadyForHigher(tt.scores); got != tt.want {
			t.Errorf("ReadyForHigher(%v) = %v, want %v", tt.scores, got, tt.want)
		}
	}
}

func TestNeedsReinforcement(t *testing.T) {
	tests := []struct {
		scores []int
		want   bool
	}{
		{nil, false},
		{[]int{0, 0}, false},
		{[]int{5, 0, 3}, true},
		{[]int{5, 6, 3}, false},
		{[]int{9, 1, 2, 5}, true},
	}
	for _, tt := range tests {
		if got := NeedsReinforcement(tt.scores); got != tt.want {
			t.Errorf("NeedsReinforcement(%v) = %v, want %v", tt.scores, got, tt.want)
		}
	}
}
