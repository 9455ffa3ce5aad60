package screening

import (
	"slices"
	"testing"
)

func TestExtractExperience(t *testing.T) {
	exp := ExtractExperience("Joined in 2010, promoted 2014, left 2020")
	if exp.TotalYears != 10 {
		t.Fatalf("expected 10 total years, got %v", exp.TotalYears)
	}
	if exp.RelevantYears != 8 {
		t.Fatalf("expected 8 relevant years, got %v", exp.RelevantYears)
	}

	if got := ExtractExperience("Since 2019"); got != (Experience{}) {
		t.Fatalf("expected zero experience, got %+v", got)
	}
}

func TestExtractEducation(t *testing.T) {
	got := ExtractEducation("Bachelor of Science", DefaultCatalog().Degrees)
	if !slices.Equal(got, []string{"Bachelor"}) {
		t.Fatalf("unexpected degrees: %q", got)
	}

	if got := ExtractEducation("Self taught", []string{"PhD"}); len(got) != 0 {
		t.Fatalf("expected no degrees, got %q", got)
	}
}

func TestDetectCareerGap(t *testing.T) {
	gap, ok := DetectCareerGap("2019 Acme\n2015 Globex\n2016 Globex\n2020 Acme")
	if !ok {
		t.Fatalf("expected a gap")
	}
	if gap.From != 2016 || gap.To != 2019 {
		t.Fatalf("unexpected gap: %+v", gap)
	}
	if gap.Months() != 36 {
		t.Fatalf("expected 36 months, got %d", gap.Months())
	}
	if gap.String() != "Potential 36 month gap detected between 2016 and 2019" {
		t.Fatalf("unexpected description: %q", gap.String())
	}
}

func TestDetectCareerGapRequiresFourYears(t *testing.T) {
	if _, ok := DetectCareerGap("2010 2015 2016"); ok {
		t.Fatalf("three years must not produce a gap")
	}
	if _, ok := DetectCareerGap("2014 2015 2017 2019"); ok {
		t.Fatalf("two-year steps are not gaps")
	}
}

func TestDetectCareerGapReportsFirstOnly(t *testing.T) {
	gap, ok := DetectCareerGap("2000 2005 2006 2012")
	if !ok || gap.From != 2000 || gap.To != 2005 {
		t.Fatalf("expected first gap 2000-2005, got %+v (%v)", gap, ok)
	}
}
