package display

import "testing"

func TestKeyAction(t *testing.T) {
	cases := []struct {
		key  int
		want Action
	}{
		{-1, None},
		{'q', Quit},
		{'Q', None},
		{'n', Trigger},
		{'N', Trigger},
		{'x', None},
		{0x100 | 'q', Quit},
		{27, None},
	}
	for _, c := range cases {
		if got := KeyAction(c.key); got != c.want {
			t.Errorf("Expected %v for key %d, got %v", c.want, c.key, got)
		}
	}
}
