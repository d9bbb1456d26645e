package timecodec

import (
	"testing"

	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want model.Minute
	}{
		{"08:00:00", 480},
		{"08:00", 480},
		{"23:59:59", 1439},
		{"2026-08-03T14:30:00", 870},
		{"00:00:00", 0},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"not-a-time", "25:00:00", "12:60:00", "", "12"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", in)
		} else if errors.GetCode(err) != errors.CodeBadTimeFormat {
			t.Errorf("Parse(%q) code = %v, want CodeBadTimeFormat", in, errors.GetCode(err))
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for m := model.Minute(0); m <= model.MinutesPerDay; m += 7 {
		s := Format(m)
		back, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(Format(%d)) error: %v", m, err)
		}
		if back != m {
			t.Errorf("round trip: %d -> %q -> %d", m, s, back)
		}
		roundTripped := Format(back)
		if roundTripped != s {
			t.Errorf("format(parse(%q)) = %q, want %q", s, roundTripped, s)
		}
	}
}

func TestExtractDeadlineNone(t *testing.T) {
	for _, in := range []string{"None", "none", "NONE", "", "  "} {
		got, err := ExtractDeadline(in)
		if err != nil {
			t.Fatalf("ExtractDeadline(%q) unexpected error: %v", in, err)
		}
		if got != nil {
			t.Errorf("ExtractDeadline(%q) = %v, want nil", in, *got)
		}
	}
}

func TestExtractDeadlineCrossDate(t *testing.T) {
	bare, err := ExtractDeadline("12:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iso, err := ExtractDeadline("2026-08-04T12:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bare == nil || iso == nil || *bare != *iso {
		t.Errorf("expected bare and ISO deadlines with the same time-of-day to match, got %v and %v", bare, iso)
	}
}
