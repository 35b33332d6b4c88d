// Package entities holds the vehicle objects produced by the swarm engine
// and the id-assigning repository that owns them.
//
// The repository is mutated only from within the engine's Step call, so it
// carries no locking; the single-writer assumption must hold for the whole
// surrounding simulation.
package entities

import "strconv"

// Controller is an optional driving controller attached to a vehicle. The
// swarm engine never drives vehicles itself; a nil controller means the
// vehicle keeps its spawn speed along its lane.
type Controller interface {
	Name() string
}

// Vehicle is one simulated traffic participant.
type Vehicle struct {
	Name string

	// Inertial pose.
	X    float64
	Y    float64
	H    float64
	Flip bool

	// Track-relative placement.
	RoadID int64
	LaneID int
	S      float64

	Speed      float64
	Controller Controller
	ModelPath  string
}

// Repository owns vehicle objects and assigns their ids.
type Repository struct {
	nextID int64
	byID   map[int64]*Vehicle
	byName map[string]int64
}

// NewRepository returns an empty repository. The first assigned id is 1.
func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		byID:   make(map[int64]*Vehicle),
		byName: make(map[string]int64),
	}
}

// Add registers a vehicle and returns its assigned id. A vehicle without a
// name is named after its id.
func (r *Repository) Add(v *Vehicle) int64 {
	id := r.nextID
	r.nextID++
	if v.Name == "" {
		v.Name = strconv.FormatInt(id, 10)
	}
	r.byID[id] = v
	r.byName[v.Name] = id
	return id
}

// GetByID returns the vehicle with the given id, or nil.
func (r *Repository) GetByID(id int64) *Vehicle {
	return r.byID[id]
}

// RemoveByName unregisters the named vehicle. Removing an unknown name is a
// no-op returning false.
func (r *Repository) RemoveByName(name string) bool {
	id, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)
	delete(r.byID, id)
	return true
}

// Count returns the number of registered vehicles.
func (r *Repository) Count() int { return len(r.byID) }
