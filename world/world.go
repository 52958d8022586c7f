// Package world is the demo host for the flock: an ECS world holding a
// leader flying a circular path and the boids that follow it.
package world

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/steering"
)

// World holds the ECS world and handles to its entities.
type World struct {
	world *ecs.World
	rng   *rand.Rand

	boidMapper *ecs.Map4[
		components.Transform,
		components.Motion,
		components.Flight,
		components.Identity,
	]
	boidFilter *ecs.Filter4[
		components.Transform,
		components.Motion,
		components.Flight,
		components.Identity,
	]
	leaderMapper *ecs.Map4[
		components.Transform,
		components.Motion,
		components.LeaderPath,
		components.LeaderTag,
	]

	transformMap *ecs.Map1[components.Transform]
	motionMap    *ecs.Map1[components.Motion]
	flightMap    *ecs.Map1[components.Flight]
	pathMap      *ecs.Map1[components.LeaderPath]

	leader *Leader
	boids  []*Boid
	byID   map[uuid.UUID]*Boid
}

// New creates an empty world with a leader on the configured path.
func New(leader config.LeaderConfig, rng *rand.Rand) *World {
	w := ecs.NewWorld()

	h := &World{
		world: w,
		rng:   rng,
		boidMapper: ecs.NewMap4[
			components.Transform,
			components.Motion,
			components.Flight,
			components.Identity,
		](w),
		boidFilter: ecs.NewFilter4[
			components.Transform,
			components.Motion,
			components.Flight,
			components.Identity,
		](w),
		leaderMapper: ecs.NewMap4[
			components.Transform,
			components.Motion,
			components.LeaderPath,
			components.LeaderTag,
		](w),
		transformMap: ecs.NewMap1[components.Transform](w),
		motionMap:    ecs.NewMap1[components.Motion](w),
		flightMap:    ecs.NewMap1[components.Flight](w),
		pathMap:      ecs.NewMap1[components.LeaderPath](w),
		byID:         make(map[uuid.UUID]*Boid),
	}

	path := components.LeaderPath{
		Radius:   leader.PathRadius,
		Speed:    leader.Speed,
		Altitude: leader.Altitude,
	}
	tr, mo := path.Sample()
	e := h.leaderMapper.NewEntity(&tr, &mo, &path, &components.LeaderTag{})
	h.leader = &Leader{w: h, entity: e}

	return h
}

// Populate spawns cfg.BoidCount boids behind the leader. Every
// cfg.GroundedEvery-th boid is spawned on the ground and cannot fly.
func (h *World) Populate(cfg config.SimulationConfig) []*Boid {
	lead := h.transformMap.Get(h.leader.entity)
	side := r3.Vec{X: -lead.Forward.Y, Y: lead.Forward.X}

	out := make([]*Boid, 0, cfg.BoidCount)
	for i := 0; i < cfg.BoidCount; i++ {
		back := cfg.SpawnRadius * (0.5 + 0.5*h.rng.Float64())
		lateral := cfg.SpawnRadius * (h.rng.Float64()*2 - 1)
		vertical := cfg.SpawnRadius * 0.25 * (h.rng.Float64()*2 - 1)

		pos := r3.Sub(lead.Position, r3.Scale(back, lead.Forward))
		pos = r3.Add(pos, r3.Scale(lateral, side))
		pos.Z += vertical

		airborne := cfg.GroundedEvery <= 0 || (i+1)%cfg.GroundedEvery != 0
		if !airborne {
			pos.Z = 0
		}

		out = append(out, h.SpawnBoid(pos, cfg.BoidMaxSpeed, cfg.BoidMaxAccel, airborne))
	}
	return out
}

// SpawnBoid creates one boid at rest and returns its handle.
func (h *World) SpawnBoid(pos r3.Vec, maxSpeed, maxAccel float64, airborne bool) *Boid {
	tr := components.Transform{Position: pos, Forward: r3.Vec{X: 1}}
	mo := components.Motion{MaxSpeed: maxSpeed, MaxAccel: maxAccel}
	fl := components.Flight{Airborne: airborne}
	id := components.Identity{ID: uuid.New()}

	e := h.boidMapper.NewEntity(&tr, &mo, &fl, &id)
	b := &Boid{w: h, entity: e, id: id.ID}
	h.boids = append(h.boids, b)
	h.byID[id.ID] = b
	return b
}

// RemoveBoid deletes the boid's entity. It reports whether the boid was
// alive.
func (h *World) RemoveBoid(b *Boid) bool {
	if b == nil || !h.world.Alive(b.entity) {
		return false
	}
	h.world.RemoveEntity(b.entity)
	delete(h.byID, b.id)
	for i, other := range h.boids {
		if other == b {
			h.boids = append(h.boids[:i], h.boids[i+1:]...)
			break
		}
	}
	return true
}

// Leader returns the flock owner.
func (h *World) Leader() *Leader { return h.leader }

// Boids returns the live boid handles in spawn order.
func (h *World) Boids() []*Boid { return h.boids }

// Boid returns the handle with the given identity, or nil.
func (h *World) Boid(id uuid.UUID) *Boid { return h.byID[id] }

// Step advances the leader along its path and integrates every boid's
// pending direct-move request.
func (h *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	path := h.pathMap.Get(h.leader.entity)
	if path.Radius > 0 {
		path.Angle = math.Mod(path.Angle+path.Speed/path.Radius*dt, 2*math.Pi)
	}
	tr, mo := path.Sample()
	*h.transformMap.Get(h.leader.entity) = tr
	*h.motionMap.Get(h.leader.entity) = mo

	query := h.boidFilter.Query()
	for query.Next() {
		tr, mo, fl, _ := query.Get()
		integrate(tr, mo, fl, dt)
	}
}

// integrate moves one boid toward its requested velocity, limited by its
// max acceleration and max speed. Grounded boids stay on the z = 0 plane.
func integrate(tr *components.Transform, mo *components.Motion, fl *components.Flight, dt float64) {
	if mo.HasRequest {
		desired := mo.Requested
		if !fl.Airborne {
			desired.Z = 0
		}

		dv := r3.Sub(desired, mo.Velocity)
		if mo.MaxAccel > 0 {
			if limit := mo.MaxAccel * dt; r3.Norm(dv) > limit {
				dv = r3.Scale(limit, steering.SafeUnit(dv))
			}
		}
		mo.Velocity = r3.Add(mo.Velocity, dv)
		mo.HasRequest = false
	}

	if speed := r3.Norm(mo.Velocity); speed > mo.MaxSpeed {
		mo.Velocity = r3.Scale(mo.MaxSpeed, steering.SafeUnit(mo.Velocity))
	}

	tr.Position = r3.Add(tr.Position, r3.Scale(dt, mo.Velocity))
	if !fl.Airborne {
		tr.Position.Z = 0
	}
	if !steering.IsZero(mo.Velocity) {
		tr.Forward = steering.SafeUnit(mo.Velocity)
	}
}
