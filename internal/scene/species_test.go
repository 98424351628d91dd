package scene

import "testing"

func TestSpeciesOf(t *testing.T) {
	tests := []struct {
		pdgID    int
		expected Species
	}{
		{11, SpeciesElectron},
		{-11, SpeciesElectron}, // positron shares the electron color
		{13, SpeciesMuon},
		{-13, SpeciesMuon},
		{22, SpeciesPhoton},
		{1, SpeciesOther},
		{2, SpeciesOther},
		{211, SpeciesOther},
		{-2112, SpeciesOther},
		{0, SpeciesOther},
	}

	for _, tt := range tests {
		if got := SpeciesOf(tt.pdgID); got != tt.expected {
			t.Errorf("SpeciesOf(%d) = %v, want %v", tt.pdgID, got, tt.expected)
		}
	}
}

func TestSpeciesColorsDistinct(t *testing.T) {
	seen := map[string]Species{}
	for _, sp := range []Species{SpeciesElectron, SpeciesMuon, SpeciesPhoton, SpeciesOther} {
		c := string(sp.Color())
		if prev, dup := seen[c]; dup {
			t.Errorf("%v and %v share color %s", prev, sp, c)
		}
		seen[c] = sp
	}
}

func TestColorIndependentOfOrdering(t *testing.T) {
	// Color is a pure function of the code; rendering order is irrelevant.
	a := SpeciesOf(13).Color()
	_ = SpeciesOf(11).Color()
	_ = SpeciesOf(22).Color()
	b := SpeciesOf(13).Color()
	if a != b {
		t.Errorf("muon color changed between calls: %s vs %s", a, b)
	}
}
