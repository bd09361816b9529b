package components

// Profile holds the shared, read-only per-type parameters that scale
// force terms and perception for every agent of a given AgentType.
type Profile struct {
	BetaAlignmentScale float32 // scales the Cucker-Smale alignment term
	EtaNoise           float32 // Vicsek rotational noise half-width (radians)
	V0PreferredSpeed   float32 // Rayleigh preferred speed
	FOVAngle           float32 // field-of-view cone full angle (radians)
	FOVEnabled         bool
	IsPredator         bool
	Color              [3]float32 // downstream-only (rendering hint)
}

// ProfileTable maps each AgentType to its shared Profile.
type ProfileTable [NumAgentTypes]Profile

// DefaultProfileTable returns a reasonable baseline profile per type.
func DefaultProfileTable() ProfileTable {
	return ProfileTable{
		Follower: {
			BetaAlignmentScale: 1.0,
			EtaNoise:           0.15,
			V0PreferredSpeed:   1.0,
			FOVAngle:           4.8, // ~275 degrees
			FOVEnabled:         true,
			Color:              [3]float32{0.3, 0.6, 1.0},
		},
		Explorer: {
			BetaAlignmentScale: 0.4,
			EtaNoise:           0.35,
			V0PreferredSpeed:   1.3,
			FOVAngle:           5.6,
			FOVEnabled:         true,
			Color:              [3]float32{0.3, 1.0, 0.5},
		},
		Leader: {
			BetaAlignmentScale: 0.7,
			EtaNoise:           0.1,
			V0PreferredSpeed:   1.1,
			FOVAngle:           6.28,
			FOVEnabled:         false,
			Color:              [3]float32{1.0, 0.85, 0.2},
		},
		Predator: {
			BetaAlignmentScale: 0.0,
			EtaNoise:           0.08,
			V0PreferredSpeed:   1.6,
			FOVAngle:           2.4,
			FOVEnabled:         true,
			IsPredator:         true,
			Color:              [3]float32{1.0, 0.2, 0.2},
		},
	}
}
