package utils

import "testing"

func TestGetOptimalWorkerCount(t *testing.T) {
	if got := GetOptimalWorkerCount("3"); got != 3 {
		t.Errorf("GetOptimalWorkerCount(\"3\") = %d; want 3", got)
	}

	for _, v := range []string{"auto", "lots", "0", "-2"} {
		got := GetOptimalWorkerCount(v)
		if got < 1 || got > 8 {
			t.Errorf("GetOptimalWorkerCount(%q) = %d; want within [1, 8]", v, got)
		}
	}
}
