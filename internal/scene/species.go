package scene

import "github.com/charmbracelet/lipgloss"

// Species classifies a particle by its PDG code for display purposes.
// Derived once from the absolute code; the sign (antiparticle) does not
// change the color.
type Species int

const (
	SpeciesOther Species = iota
	SpeciesElectron
	SpeciesMuon
	SpeciesPhoton
)

// Species colors for visual differentiation
var speciesColors = map[Species]lipgloss.Color{
	SpeciesElectron: lipgloss.Color("#f85149"), // red
	SpeciesMuon:     lipgloss.Color("#7ee787"), // green
	SpeciesPhoton:   lipgloss.Color("#e3b341"), // yellow
	SpeciesOther:    lipgloss.Color("#76e3ea"), // cyan
}

// SpeciesOf maps a PDG code to its display species.
func SpeciesOf(pdgID int) Species {
	if pdgID < 0 {
		pdgID = -pdgID
	}
	switch pdgID {
	case 11:
		return SpeciesElectron
	case 13:
		return SpeciesMuon
	case 22:
		return SpeciesPhoton
	default:
		return SpeciesOther
	}
}

// Color returns the display color for the species.
func (s Species) Color() lipgloss.Color {
	if c, ok := speciesColors[s]; ok {
		return c
	}
	return speciesColors[SpeciesOther]
}

func (s Species) String() string {
	switch s {
	case SpeciesElectron:
		return "electron"
	case SpeciesMuon:
		return "muon"
	case SpeciesPhoton:
		return "photon"
	default:
		return "other"
	}
}
