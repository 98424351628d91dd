package api

import "time"

// ParticleData holds columnar four-vector data for all particles in an
// event. The slices are parallel; each index is one particle.
type ParticleData struct {
	PDGID  []int     `json:"pdg_id"`
	Px     []float64 `json:"px"`
	Py     []float64 `json:"py"`
	Pz     []float64 `json:"pz"`
	Energy []float64 `json:"energy"`
	Charge []float64 `json:"charge"`
	Mass   []float64 `json:"mass"`
}

// Len returns the number of complete particles: the shortest of the
// parallel arrays. A malformed payload whose arrays disagree in length
// yields only the indices that exist in every array, so callers can
// never index past a slice. Zero when the payload carried no arrays.
func (p *ParticleData) Len() int {
	if p == nil {
		return 0
	}
	n := len(p.PDGID)
	for _, l := range [...]int{len(p.Px), len(p.Py), len(p.Pz), len(p.Energy), len(p.Charge), len(p.Mass)} {
		if l < n {
			n = l
		}
	}
	return n
}

// Event is a single collision event as served by the gateway.
// Particles is nil on list responses; only the detail endpoint includes it.
type Event struct {
	EventID            string        `json:"event_id"`
	RunNumber          int           `json:"run_number"`
	EventNumber        int           `json:"event_number"`
	Timestamp          string        `json:"timestamp"`
	NumParticles       int           `json:"num_particles"`
	TotalEnergy        *float64      `json:"total_energy,omitempty"`
	CenterOfMassEnergy float64       `json:"center_of_mass_energy"`
	EventType          string        `json:"event_type,omitempty"`
	Particles          *ParticleData `json:"particles,omitempty"`
}

// Kinematics holds event-level physics quantities computed by the analysis
// service. All fields are optional; a nil pointer means the quantity was
// not computed, which is distinct from zero.
type Kinematics struct {
	EventID       string   `json:"event_id"`
	InvariantMass *float64 `json:"invariant_mass,omitempty"`
	MissingET     *float64 `json:"missing_et,omitempty"`
	MissingETPhi  *float64 `json:"missing_et_phi,omitempty"`
	ScalarHT      *float64 `json:"scalar_ht,omitempty"`
	LeadingJetPt  *float64 `json:"leading_jet_pt,omitempty"`
	LeadingJetEta *float64 `json:"leading_jet_eta,omitempty"`
	LeadingJetPhi *float64 `json:"leading_jet_phi,omitempty"`
	NumJets       *int     `json:"num_jets,omitempty"`
	NumLeptons    *int     `json:"num_leptons,omitempty"`
	NumPhotons    *int     `json:"num_photons,omitempty"`
}

// EventDetail pairs an event with its kinematics, when available.
type EventDetail struct {
	Event      Event       `json:"event"`
	Kinematics *Kinematics `json:"kinematics,omitempty"`
}

// EventList is a page of events.
type EventList struct {
	Events   []EventDetail `json:"events"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ShellGeometry describes one detector subsystem envelope in meters.
type ShellGeometry struct {
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Length      float64 `json:"length"`
}

// DetectorGeometry holds the three concentric subsystem envelopes.
type DetectorGeometry struct {
	Tracker ShellGeometry `json:"tracker"`
	ECAL    ShellGeometry `json:"ecal"`
	HCAL    ShellGeometry `json:"hcal"`
}

// DetectorConfig is one stored detector configuration. At most one config
// in a set is active.
type DetectorConfig struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Geometry          DetectorGeometry   `json:"geometry"`
	MagneticField     float64            `json:"magnetic_field"`
	TriggerThresholds map[string]float64 `json:"trigger_thresholds,omitempty"`
	IsActive          bool               `json:"is_active"`
	CreatedAt         time.Time          `json:"created_at"`
}

// HistogramRequest describes a histogram to compute server-side.
type HistogramRequest struct {
	Variable string   `json:"variable"`
	Bins     int      `json:"bins"`
	RangeMin *float64 `json:"range_min,omitempty"`
	RangeMax *float64 `json:"range_max,omitempty"`
}

// HistogramResult is a computed histogram. Bins holds N+1 edges for N
// values; len(Bins) == len(Values)+1 always holds for a valid response.
type HistogramResult struct {
	Variable  string    `json:"variable"`
	Bins      []float64 `json:"bins"`
	Values    []int     `json:"values"`
	NumEvents int       `json:"num_events"`
	RangeMin  float64   `json:"range_min"`
	RangeMax  float64   `json:"range_max"`
}

// Statistics is the server-side aggregate summary. Consumed read-only.
type Statistics struct {
	TotalEvents          int      `json:"total_events"`
	TotalRuns            int      `json:"total_runs"`
	EventsWithLeptons    int      `json:"events_with_leptons"`
	EventsWithJets       int      `json:"events_with_jets"`
	AverageInvariantMass *float64 `json:"average_invariant_mass,omitempty"`
	AverageMissingET     *float64 `json:"average_missing_et,omitempty"`
}

// GenerateAck acknowledges a generation request.
type GenerateAck struct {
	Message   string   `json:"message"`
	NumEvents int      `json:"num_events"`
	EventIDs  []string `json:"event_ids"`
}
