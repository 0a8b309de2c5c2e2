package core

import "testing"

func TestMISWeightLaw(t *testing.T) {
	cases := []struct{ a, b float64 }{
		{1, 1}, {0.5, 2}, {3, 0}, {0, 3}, {0, 0}, {1e-4, 1e4},
	}
	for _, c := range cases {
		wab := MISWeight(c.a, c.b)
		wba := MISWeight(c.b, c.a)
		if wab < 0 || wba < 0 {
			t.Fatalf("mis(%v,%v)=%v mis(%v,%v)=%v: negative weight", c.a, c.b, wab, c.b, c.a, wba)
		}
		sum := wab + wba
		if sum > 1+1e-9 {
			t.Fatalf("mis(%v,%v)+mis(%v,%v)=%v, want <= 1", c.a, c.b, c.b, c.a, sum)
		}
		if c.a > 0 && c.b > 0 && sum < 1-1e-9 {
			t.Fatalf("mis(%v,%v)+mis(%v,%v)=%v, want == 1 when both > 0", c.a, c.b, c.b, c.a, sum)
		}
	}
}

func TestMISWeightZeroPdf(t *testing.T) {
	if w := MISWeight(0, 5); w != 0 {
		t.Errorf("MISWeight(0,5)=%v, want 0", w)
	}
}
