package layout

import (
	"fmt"

	"github.com/storyloom/storyloom/pkg/story"
)

// Strategy selects one of the four layout algorithms.
type Strategy int

const (
	// Hierarchical arranges nodes into fixed-size levels, optionally
	// clustered by branch, laid out left-to-right.
	Hierarchical Strategy = iota
	// ForceDirected runs a spring-electrical simulation.
	ForceDirected
	// Circular places nodes on a ring, or one concentric ring per branch.
	Circular
	// Timeline orders nodes left-to-right by their pre-layout x position.
	Timeline
)

// Strategy names accepted by [ParseStrategy] and returned by Strategy.String.
const (
	StrategyHierarchical = "hierarchical"
	StrategyForce        = "force"
	StrategyCircular     = "circular"
	StrategyTimeline     = "timeline"
)

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	switch s {
	case Hierarchical:
		return StrategyHierarchical
	case ForceDirected:
		return StrategyForce
	case Circular:
		return StrategyCircular
	case Timeline:
		return StrategyTimeline
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name to a Strategy.
// Returns an error for unrecognized names.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyHierarchical:
		return Hierarchical, nil
	case StrategyForce:
		return ForceDirected, nil
	case StrategyCircular:
		return Circular, nil
	case StrategyTimeline:
		return Timeline, nil
	default:
		return 0, fmt.Errorf("invalid strategy: %q (must be one of: hierarchical, force, circular, timeline)", name)
	}
}

// Point is a computed graph-space coordinate for a node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Default values applied by [Config.withDefaults].
const (
	// DefaultWidth is the default bounding-box width for force seeding.
	DefaultWidth = 800.0

	// DefaultHeight is the default bounding-box height for force seeding.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for reproducible force layouts.
	DefaultSeed = uint64(42)
)

// Config carries the tunable inputs shared by the strategies.
// The zero value is usable; zero fields are replaced with defaults.
type Config struct {
	// ClusterByBranch groups nodes by their owning branch before placement.
	// Hierarchical lays clusters out left-to-right; Circular gives each
	// cluster its own concentric ring. Force and Timeline ignore it.
	ClusterByBranch bool

	// Width and Height bound the random seeding box for force layouts.
	Width  float64
	Height float64

	// Seed drives the random seeding of force layouts for reproducibility.
	Seed uint64
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Compute runs the given strategy over the node set and returns a node-id →
// coordinate map. It is a pure function: no I/O, no retained state, and the
// input nodes are never mutated - callers apply the returned coordinates
// themselves. Existing node positions are only read as hints by strategies
// that need a stable seed (force, timeline).
func Compute(nodes []*story.Node, edges []story.Edge, strategy Strategy, cfg Config) (map[string]Point, error) {
	cfg = cfg.withDefaults()

	switch strategy {
	case Hierarchical:
		return hierarchical(nodes, cfg), nil
	case ForceDirected:
		return forceDirected(nodes, edges, cfg), nil
	case Circular:
		return circular(nodes, cfg), nil
	case Timeline:
		return timeline(nodes), nil
	default:
		return nil, fmt.Errorf("invalid strategy: %d", strategy)
	}
}

// groupByBranch splits nodes into per-branch groups in first-seen order.
// With clustering disabled, all nodes form a single group in input order.
func groupByBranch(nodes []*story.Node, cluster bool) [][]*story.Node {
	if !cluster {
		if len(nodes) == 0 {
			return nil
		}
		return [][]*story.Node{nodes}
	}

	index := make(map[string]int)
	var groups [][]*story.Node
	for _, n := range nodes {
		i, ok := index[n.BranchID]
		if !ok {
			i = len(groups)
			index[n.BranchID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], n)
	}
	return groups
}
