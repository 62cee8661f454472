package midi

import (
	"testing"
)

func TestTimeSignatureString(t *testing.T) {
	expected := []struct {
		numerator   uint8
		denominator uint8
		rendered    string
	}{
		{4, 2, "Time signature: 4/4"},
		{6, 3, "Time signature: 6/8"},
		{2, 1, "Time signature: 2/2"},
		// An exponent this large would shift the base out of a uint32;
		// it must not render as x/0.
		{4, 40, "Time signature: 4/2^40"},
	}
	for _, v := range expected {
		event := &TimeSignatureEvent{
			Numerator:   v.numerator,
			Denominator: v.denominator,
		}
		rendered := event.String()
		if rendered != v.rendered {
			t.Logf("Wrong time signature rendering. Expected %q, got "+
				"%q.\n", v.rendered, rendered)
			t.FailNow()
		}
	}
}
