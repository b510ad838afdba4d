package combat

import "fmt"

// Category tags each kind of targetable entity.
type Category int

const (
	CategoryAir Category = iota
	CategoryTowerAA
	CategoryScatteredAA
	CategorySAM
	CategoryBunker
	categoryCount
)

// AllCategories lists every targetable category in registry order.
var AllCategories = []Category{CategoryAir, CategoryTowerAA, CategoryScatteredAA, CategorySAM, CategoryBunker}

// GroundCategories lists the four installation categories.
var GroundCategories = []Category{CategoryTowerAA, CategoryScatteredAA, CategorySAM, CategoryBunker}

func (c Category) String() string {
	switch c {
	case CategoryAir:
		return "air"
	case CategoryTowerAA:
		return "tower_aa"
	case CategoryScatteredAA:
		return "scattered_aa"
	case CategorySAM:
		return "sam"
	case CategoryBunker:
		return "bunker"
	default:
		return "unknown"
	}
}

// Ground reports whether the category is a stationary installation.
func (c Category) Ground() bool { return c != CategoryAir && c < categoryCount }

// Handle names one target permanently. The zero Handle names nothing.
type Handle struct {
	Category Category `json:"category"`
	ID       uint64   `json:"id"`
}

// NoHandle is the empty handle.
var NoHandle = Handle{}

// Valid reports whether h names an entity at all (it may still be stale).
func (h Handle) Valid() bool { return h.ID != 0 }

func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("%s#%d", h.Category, h.ID)
}

// Target is the behaviour shared by every targetable entity.
type Target interface {
	Handle() Handle
	// Position is the entity's reference point (base position for installations).
	Position() Vec3
	// AimPoint is where guidance and proximity checks aim.
	AimPoint() Vec3
	Health() (cur, max float64)
	// Damage subtracts hit points and reports whether the entity is now dead.
	Damage(amount float64) bool
	Dead() bool
}

// hull holds hit points for any entity.
type hull struct {
	HP    float64
	MaxHP float64
}

func (h *hull) Health() (float64, float64) { return h.HP, h.MaxHP }
func (h *hull) Dead() bool                  { return h.HP <= 0 }

func (h *hull) Damage(amount float64) bool {
	if amount > 0 {
		h.HP -= amount
	}
	return h.HP <= 0
}

// --- Airborne vehicles ---

// VehicleType selects an airborne vehicle's size and toughness.
type VehicleType int

const (
	VehicleFighter VehicleType = iota
	VehicleBomber
	VehicleHelicopter
)

func (t VehicleType) String() string {
	switch t {
	case VehicleFighter:
		return "fighter"
	case VehicleBomber:
		return "bomber"
	case VehicleHelicopter:
		return "helicopter"
	default:
		return "unknown"
	}
}

// MovementPattern drives an airborne vehicle's path.
type MovementPattern int

const (
	PatternOrbit MovementPattern = iota // circle a fixed centre
	PatternPatrol                       // straight line at constant heading
	PatternWeave                        // patrol with a sinusoidal heading wobble
	PatternHover                        // stationary
)

// Vehicle is an airborne target.
type Vehicle struct {
	hull
	id      uint64
	Type    VehicleType
	Pattern MovementPattern
	Pos     Vec3
	Heading float64
	Pitch   float64
	Roll    float64
	Speed   float64
	Radius  float64 // hit-sphere radius

	// pattern state
	Center Vec3
	orbitR float64
	base   float64 // weave centre heading
	phase  float64
	age    float64
}

func (v *Vehicle) Handle() Handle     { return Handle{Category: CategoryAir, ID: v.id} }
func (v *Vehicle) Position() Vec3     { return v.Pos }
func (v *Vehicle) AimPoint() Vec3     { return v.Pos }
func (v *Vehicle) Velocity() Vec3     { return Forward(v.Heading, v.Pitch).Scale(v.Speed) }
func (v *Vehicle) HitRadius() float64 { return v.Radius }

// --- Ground installations ---

// battery is the fire-control state of a weapon-carrying installation.
type battery struct {
	Cooldown float64
	Aiming   bool
	Loaded   bool
}

// Installation is the shared body of all ground categories. Base holds the
// 2D location with Z as the ground altitude at placement.
type Installation struct {
	hull
	id     uint64
	cat    Category
	Base   Vec3
	offset float64
}

func (in *Installation) Handle() Handle { return Handle{Category: in.cat, ID: in.id} }
func (in *Installation) Position() Vec3 { return in.Base }

// AimPoint lifts the base by the category's vertical offset.
func (in *Installation) AimPoint() Vec3 { return in.Base.Add(Vec3{Z: in.offset}) }

// SAMSite launches player-seeking guided rounds.
type SAMSite struct {
	Installation
	battery
}

// TowerAA is a gun battery mounted on a tower's shaft. It engages only
// while Host is hostile and the player is outside Host's no-fire bubble; a
// battery without a host holds fire.
type TowerAA struct {
	Installation
	battery
	Host *Tower
}

// ScatteredAA is a field gun emplacement.
type ScatteredAA struct {
	Installation
	battery
}

// Bunker is a hardened unarmed structure.
type Bunker struct {
	Installation
}

// Tower is a large cylindrical structure. It cannot be destroyed. A player
// blast turns it hostile, arming the batteries on its shaft; it reverts once
// the player loiters nearby for long enough without hitting it.
type Tower struct {
	Pos     Vec3 // base centre
	Radius  float64
	Height  float64
	Hostile bool

	loiter  float64 // seconds the player has spent within loiter range
	lastHit float64 // world clock of the last player blast on the tower
}

// Contains reports whether p lies inside the tower's column.
func (t *Tower) Contains(p Vec3) bool {
	return Dist2D(p, t.Pos) <= t.Radius && p.Z <= t.Pos.Z+t.Height && p.Z >= t.Pos.Z
}

// --- Player ---

// Player is the controlled aircraft.
type Player struct {
	hull
	Pos          Vec3
	Heading      float64
	Pitch        float64
	Roll         float64
	Speed        float64
	Throttle     float64
	Radius       float64
	Invulnerable bool
}

// Forward is the player's nose axis.
func (p *Player) Forward() Vec3 { return Forward(p.Heading, p.Pitch) }

// Velocity is the player's current velocity vector.
func (p *Player) Velocity() Vec3 { return p.Forward().Scale(p.Speed) }

// Pose returns the shooter pose used by the candidate selector.
func (p *Player) Pose() Pose {
	return Pose{Pos: p.Pos, Heading: p.Heading, Pitch: p.Pitch, Roll: p.Roll}
}
