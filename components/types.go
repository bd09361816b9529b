// Package components defines the arena data types for the flocking engine:
// per-agent state, per-type profiles, resources, obstacles, group
// aggregates, and the immutable parameter block.
package components

// AgentType distinguishes the heterogeneous roles a flocking agent can
// take. Predators never belong to a group (GroupID is always -1 for
// them).
type AgentType uint8

const (
	Follower AgentType = iota
	Explorer
	Leader
	Predator
)

// String returns the display name for an AgentType.
func (t AgentType) String() string {
	switch t {
	case Follower:
		return "follower"
	case Explorer:
		return "explorer"
	case Leader:
		return "leader"
	case Predator:
		return "predator"
	default:
		return "unknown"
	}
}

// IsPredator reports whether the type is the predator role.
func (t AgentType) IsPredator() bool {
	return t == Predator
}

// NumAgentTypes is the number of distinct agent roles.
const NumAgentTypes = 4

// Sentinel is the coordinate magnitude used to park dead agents outside
// any live grid cell (spec: "sentinel >= 1e6").
const Sentinel float32 = 1e6

// NoTarget is the sentinel value for target_resource_id/target_prey_id
// when an agent has no current target.
const NoTarget int32 = -1

// NoGroup is the sentinel value for group_id when an agent is
// unclustered (or is a predator, which is never grouped).
const NoGroup int32 = -1
