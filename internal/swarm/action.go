package swarm

import (
	"math/rand"
	"time"

	"github.com/roadsim/swarm/internal/aabb"
	"github.com/roadsim/swarm/internal/entities"
	"github.com/roadsim/swarm/internal/geom"
	"github.com/roadsim/swarm/internal/monitoring"
	"github.com/roadsim/swarm/internal/roadnet"
)

// PoseProvider reports the current pose of the moving reference object.
type PoseProvider func() geom.Point

// Action is the step controller. It conforms to the surrounding scheduler's
// action lifecycle (Start/Step/Stop/End/IsActive) and throttles the
// expensive geometry pipeline to one evaluation per StepInterval of
// simulated time.
//
// The action owns a single random engine, seeded nondeterministically at
// construction; tests inject a fixed-seed engine via SetRand before Start.
type Action struct {
	cfg  Config
	net  roadnet.Network
	repo *entities.Repository
	ego  PoseProvider
	rng  *rand.Rand

	lifecycle       *Lifecycle
	roadTree        *aabb.Tree
	pendingRecorder EventRecorder

	midSMjA  float64
	midSMnA  float64
	chunkLen float64
	lastTime float64
	active   bool

	lastSolutions []geom.Point
}

// NewAction creates the step controller. Start must be called before Step.
func NewAction(cfg Config, net roadnet.Network, repo *entities.Repository, ego PoseProvider) *Action {
	return &Action{
		cfg:  cfg,
		net:  net,
		repo: repo,
		ego:  ego,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the random engine. Call before Start; the lifecycle and
// sampler share the engine.
func (a *Action) SetRand(rng *rand.Rand) { a.rng = rng }

// SetRecorder attaches an event recorder to the lifecycle. May be called
// before or after Start.
func (a *Action) SetRecorder(r EventRecorder) {
	if a.lifecycle != nil {
		a.lifecycle.SetRecorder(r)
		return
	}
	a.pendingRecorder = r
}

// Start performs one-time setup: mid radii, chunk length, the static road
// tree, and the never-evaluated marker. It then activates the action.
func (a *Action) Start(simTime, dt float64) {
	a.midSMjA, a.midSMnA = a.cfg.MidRadii()
	a.chunkLen = ChunkSize(a.midSMjA, a.midSMnA)
	a.lastTime = -1

	a.lifecycle = NewLifecycle(a.cfg, a.net, a.repo, a.rng)
	if a.pendingRecorder != nil {
		a.lifecycle.SetRecorder(a.pendingRecorder)
	}

	seg := NewSegmenter(a.net, a.chunkLen)
	tree := &aabb.Tree{}
	tree.Build(seg.RoadBoxes())
	a.roadTree = tree

	monitoring.Logf("swarm: start (inner %.1f, outer %.1f/%.1f, fleet %d, %d road leaves)",
		a.cfg.InnerRadius, a.cfg.SemiMajorAxis, a.cfg.SemiMinorAxis, a.cfg.MaxVehicles, tree.LeafCount())
	a.active = true
}

// Step runs the full pipeline when at least StepInterval of simulated time
// has passed since the last evaluation (or on the first call); otherwise it
// is a no-op. dt is accepted for lifecycle-protocol conformance and unused:
// the throttle works on absolute simulated time.
func (a *Action) Step(dt, simTime float64) {
	if !a.active {
		return
	}
	if a.lastTime >= 0 && simTime-a.lastTime < a.cfg.StepInterval {
		return
	}

	pose := a.ego()
	info := EllipseInfo{SemiMajor: a.midSMjA, SemiMinor: a.midSMnA, Pose: pose}

	eTree := &aabb.Tree{}
	eTree.Build(EllipseSegments(info))

	var candidates []aabb.Candidate
	a.roadTree.Intersect(eTree, &candidates)
	pairs := aabb.ProcessCandidates(candidates)
	sols := aabb.FindPoints(pairs, info, a.net)
	a.lastSolutions = sols
	monitoring.Debugf("swarm: t=%.2f ring leaves %d, candidates %d, pairs %d",
		simTime, eTree.LeafCount(), len(candidates), len(pairs))

	removed := a.lifecycle.Despawn(simTime, pose)
	a.lifecycle.Spawn(sols, removed, simTime)
	a.lastTime = simTime

	monitoring.Logf("swarm: step t=%.2f, %d crossing points, %d despawned, fleet %d",
		simTime, len(sols), removed, a.lifecycle.ActiveCount())
}

// Stop deactivates the action. Safe to call at any time, repeatedly.
func (a *Action) Stop() { a.active = false }

// End deactivates the action with no extra teardown.
func (a *Action) End() { a.active = false }

// IsActive reports whether Step currently evaluates.
func (a *Action) IsActive() bool { return a.active }

// RoadTree returns the static road index built at Start.
func (a *Action) RoadTree() *aabb.Tree { return a.roadTree }

// Lifecycle returns the lifecycle manager. Nil before Start.
func (a *Action) Lifecycle() *Lifecycle { return a.lifecycle }

// LastSolutions returns the crossing points of the most recent evaluation.
func (a *Action) LastSolutions() []geom.Point { return a.lastSolutions }

// RingInfo returns the current sampling-ring parameters for the reference
// pose. Valid after Start.
func (a *Action) RingInfo() EllipseInfo {
	return EllipseInfo{SemiMajor: a.midSMjA, SemiMinor: a.midSMnA, Pose: a.ego()}
}
