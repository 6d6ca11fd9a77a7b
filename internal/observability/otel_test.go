package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, =x, tenant=acme ")
	if len(got) != 2 || got["api-key"] != "abc" || got["tenant"] != "acme" {
		t.Fatalf("ParseHeaders: %+v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("ParseHeaders empty: expected nil")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{0: 0.1, -1: 0.1, 0.5: 0.5, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): want=%v got=%v", in, want, got)
		}
	}
}
