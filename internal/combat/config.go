package combat

import "math"

// Falloff maps detonation distance to a fraction of base damage.
type Falloff int

const (
	FalloffNone    Falloff = iota // full damage inside the radius
	FalloffLinear                 // 1 - d/r
	FalloffShallow                // sqrt(1 - d/r)
)

func (f Falloff) String() string {
	switch f {
	case FalloffNone:
		return "none"
	case FalloffLinear:
		return "linear"
	case FalloffShallow:
		return "shallow"
	default:
		return "unknown"
	}
}

// Seeker selects a guided round's homing behaviour.
type Seeker int

const (
	SeekerNone  Seeker = iota // unguided
	SeekerIR                  // infra-red, decoyable
	SeekerRadar               // command/radar guided, ignores decoys
)

// WeaponKey names a weapon type.
type WeaponKey string

const (
	WeaponGun    WeaponKey = "gun"
	WeaponRocket WeaponKey = "rocket"
	WeaponIR     WeaponKey = "ir"
	WeaponRadar  WeaponKey = "radar"
	WeaponAGM    WeaponKey = "agm"
	WeaponSAM    WeaponKey = "sam" // installation-fired only
)

// WeaponSpec is the static description of a weapon type.
type WeaponSpec struct {
	Key          WeaponKey  `mapstructure:"key"`
	Speed        float64    `mapstructure:"speed"`        // m/s, fixed
	TurnRate     float64    `mapstructure:"turnRate"`     // rad/s
	Lifetime     float64    `mapstructure:"lifetime"`     // seconds
	Damage       float64    `mapstructure:"damage"`       // AOE base damage
	DirectDamage float64    `mapstructure:"directDamage"` // applied to the struck vehicle
	AOERadius    float64    `mapstructure:"aoeRadius"`
	Falloff      Falloff    `mapstructure:"falloff"`
	HitRadius    float64    `mapstructure:"hitRadius"` // projectile body radius
	Seeker       Seeker     `mapstructure:"seeker"`
	LockConeDeg  float64    `mapstructure:"lockConeDeg"` // half-angle
	LockRange    float64    `mapstructure:"lockRange"`
	LockTime     float64    `mapstructure:"lockTime"`
	Ammo         int        `mapstructure:"ammo"` // starting stock
	Categories   []Category `mapstructure:"categories"`
}

// Guided reports whether rounds of this weapon can steer.
func (w WeaponSpec) Guided() bool { return w.Seeker != SeekerNone && w.TurnRate > 0 }

// InstallationSpec is the static description of an installation category.
type InstallationSpec struct {
	MaxHP       float64 `mapstructure:"maxHP"`
	Offset      float64 `mapstructure:"offset"`      // aim point height above base
	Range       float64 `mapstructure:"range"`       // engagement range, 3D
	Reload      float64 `mapstructure:"reload"`      // seconds between shots
	RoundSpeed  float64 `mapstructure:"roundSpeed"`  // ballistic rounds
	RoundLife   float64 `mapstructure:"roundLife"`   // ballistic rounds
	RoundDamage float64 `mapstructure:"roundDamage"` // ballistic direct hit
	RoundRadius float64 `mapstructure:"roundRadius"` // ballistic hit radius
	ExplosionFx float64 `mapstructure:"explosionFx"` // cosmetic size on death
}

// VehicleSpec is the static description of an airborne vehicle type.
type VehicleSpec struct {
	MaxHP       float64 `mapstructure:"maxHP"`
	RadiusScale float64 `mapstructure:"radiusScale"`
	Speed       float64 `mapstructure:"speed"`
}

// Config is the complete static tuning of a World.
type Config struct {
	// Frame
	MaxFrameDt float64 `mapstructure:"maxFrameDt"`

	// World bounds (square, centred on the origin) and population.
	Bounds        float64 `mapstructure:"bounds"`
	MaxVehicles   int     `mapstructure:"maxVehicles"`
	SpawnInterval float64 `mapstructure:"spawnInterval"`
	BaseRadius    float64 `mapstructure:"baseRadius"` // vehicle hit sphere before scaling

	// Targeting
	EyeHeight       float64 `mapstructure:"eyeHeight"`
	LOSClearance    float64 `mapstructure:"losClearance"`
	StickyMarginDeg float64 `mapstructure:"stickyMarginDeg"`
	CycleMarginDeg  float64 `mapstructure:"cycleMarginDeg"`

	// Collision
	GroundFuseRadius float64 `mapstructure:"groundFuseRadius"`
	TerrainMargin    float64 `mapstructure:"terrainMargin"`
	MinProxFuse      float64 `mapstructure:"minProxFuse"`
	ProxFuseScale    float64 `mapstructure:"proxFuseScale"`
	TrailLength      int     `mapstructure:"trailLength"`

	// Countermeasures
	DecoyStock       int     `mapstructure:"decoyStock"`
	DecoyCooldown    float64 `mapstructure:"decoyCooldown"`
	DecoyLifetime    float64 `mapstructure:"decoyLifetime"`
	DecoyHitRadius   float64 `mapstructure:"decoyHitRadius"`
	SeekerHalfAngDeg float64 `mapstructure:"seekerHalfAngleDeg"`

	// Towers. A hostile tower reverts once the player has spent
	// TowerRevertTime within TowerLoiterRange and as long since the last hit.
	TowerRadius      float64 `mapstructure:"towerRadius"`
	TowerHeight      float64 `mapstructure:"towerHeight"`
	NoFireRadius     float64 `mapstructure:"noFireRadius"`
	TowerLoiterRange float64 `mapstructure:"towerLoiterRange"`
	TowerRevertTime  float64 `mapstructure:"towerRevertTime"`

	// Player
	PlayerMaxHP        float64 `mapstructure:"playerMaxHP"`
	PlayerRadius       float64 `mapstructure:"playerRadius"`
	PlayerMinSpeed     float64 `mapstructure:"playerMinSpeed"`
	PlayerMaxSpeed     float64 `mapstructure:"playerMaxSpeed"`
	PlayerPitchRate    float64 `mapstructure:"playerPitchRate"` // rad/s
	PlayerYawRate      float64 `mapstructure:"playerYawRate"`   // rad/s
	PlayerRollRate     float64 `mapstructure:"playerRollRate"`  // rad/s
	PlayerInvulnerable bool    `mapstructure:"playerInvulnerable"`

	// Contact damage: per second while overlapping a vehicle, and per
	// push-out from a tower column.
	RamDamageRate      float64 `mapstructure:"ramDamageRate"`
	TowerContactDamage float64 `mapstructure:"towerContactDamage"`

	Weapons       map[WeaponKey]WeaponSpec      `mapstructure:"weapons"`
	WeaponOrder   []WeaponKey                   `mapstructure:"weaponOrder"`
	Installations map[Category]InstallationSpec `mapstructure:"installations"`
	Vehicles      map[VehicleType]VehicleSpec   `mapstructure:"vehicles"`
}

// Frame clamp: one 60 Hz tick.
const defaultMaxFrameDt = 1.0 / 60.0

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MaxFrameDt: defaultMaxFrameDt,

		Bounds:        12000,
		MaxVehicles:   6,
		SpawnInterval: 4,
		BaseRadius:    8,

		EyeHeight:       2,
		LOSClearance:    1.5,
		StickyMarginDeg: 5,
		CycleMarginDeg:  12,

		GroundFuseRadius: 12,
		TerrainMargin:    1,
		MinProxFuse:      4,
		ProxFuseScale:    0.8,
		TrailLength:      24,

		DecoyStock:       30,
		DecoyCooldown:    0.5,
		DecoyLifetime:    3,
		DecoyHitRadius:   6,
		SeekerHalfAngDeg: 30,

		TowerRadius:      25,
		TowerHeight:      120,
		NoFireRadius:     600,
		TowerLoiterRange: 5000,
		TowerRevertTime:  20,

		PlayerMaxHP:     100,
		PlayerRadius:    6,
		PlayerMinSpeed:  90,
		PlayerMaxSpeed:  320,
		PlayerPitchRate: deg(45),
		PlayerYawRate:   deg(30),
		PlayerRollRate:  deg(120),

		RamDamageRate:      20,
		TowerContactDamage: 30,

		WeaponOrder: []WeaponKey{WeaponGun, WeaponRocket, WeaponIR, WeaponRadar, WeaponAGM},
		Weapons: map[WeaponKey]WeaponSpec{
			WeaponGun: {
				Key: WeaponGun, Speed: 1000, Lifetime: 1.2, DirectDamage: 10,
				HitRadius: 1, LockConeDeg: 15, LockRange: 1200, LockTime: 0,
				Ammo: 600, Categories: AllCategories,
			},
			WeaponRocket: {
				Key: WeaponRocket, Speed: 700, Lifetime: 4, Damage: 30, AOERadius: 40,
				Falloff: FalloffLinear, HitRadius: 1.5, LockConeDeg: 15, LockRange: 2500,
				Ammo: 24, Categories: GroundCategories,
			},
			WeaponIR: {
				Key: WeaponIR, Speed: 600, TurnRate: 1.6, Lifetime: 8, Damage: 45,
				AOERadius: 60, Falloff: FalloffLinear, HitRadius: 3, Seeker: SeekerIR,
				LockConeDeg: 15, LockRange: 6000, LockTime: 0.7, Ammo: 4,
				Categories: []Category{CategoryAir},
			},
			WeaponRadar: {
				Key: WeaponRadar, Speed: 800, TurnRate: 1.0, Lifetime: 12, Damage: 70,
				AOERadius: 80, Falloff: FalloffShallow, HitRadius: 3, Seeker: SeekerRadar,
				LockConeDeg: 10, LockRange: 9000, LockTime: 1.5, Ammo: 2,
				Categories: []Category{CategoryAir},
			},
			WeaponAGM: {
				Key: WeaponAGM, Speed: 350, TurnRate: 0.8, Lifetime: 15, Damage: 150,
				AOERadius: 120, Falloff: FalloffNone, HitRadius: 2, Seeker: SeekerRadar,
				LockConeDeg: 20, LockRange: 5000, LockTime: 1.0, Ammo: 4,
				Categories: GroundCategories,
			},
			WeaponSAM: {
				Key: WeaponSAM, Speed: 450, TurnRate: 1.2, Lifetime: 14, Damage: 35,
				AOERadius: 50, Falloff: FalloffLinear, HitRadius: 3, Seeker: SeekerIR,
			},
		},
		Installations: map[Category]InstallationSpec{
			CategoryTowerAA: {
				MaxHP: 60, Offset: 40, Range: 2500, Reload: 0.25,
				RoundSpeed: 900, RoundLife: 3, RoundDamage: 4, RoundRadius: 6, ExplosionFx: 2,
			},
			CategoryScatteredAA: {
				MaxHP: 40, Offset: 4, Range: 1800, Reload: 0.4,
				RoundSpeed: 800, RoundLife: 2.5, RoundDamage: 3, RoundRadius: 6, ExplosionFx: 1.5,
			},
			CategorySAM: {MaxHP: 80, Offset: 8, Range: 7000, Reload: 6, ExplosionFx: 3},
			CategoryBunker: {MaxHP: 200, Offset: 3, ExplosionFx: 2.5},
		},
		Vehicles: map[VehicleType]VehicleSpec{
			VehicleFighter:    {MaxHP: 40, RadiusScale: 1.0, Speed: 180},
			VehicleBomber:     {MaxHP: 90, RadiusScale: 1.8, Speed: 130},
			VehicleHelicopter: {MaxHP: 30, RadiusScale: 0.8, Speed: 60},
		},
	}
}

// Weapon returns the spec for key.
func (c *Config) Weapon(key WeaponKey) (WeaponSpec, bool) {
	w, ok := c.Weapons[key]
	return w, ok
}

// cosDeg is the cosine of a half-angle given in degrees, clamped to a hemisphere.
func cosDeg(d float64) float64 {
	return math.Cos(deg(clamp(d, 0, 180)))
}
