package combat

// ProjectileView is a render-only copy of a live round.
type ProjectileView struct {
	ID            uint64    `json:"id"`
	Weapon        WeaponKey `json:"weapon"`
	Pos           Vec3      `json:"pos"`
	Basis         Basis     `json:"basis"`
	PlayerSeeking bool      `json:"playerSeeking"`
	Target        string    `json:"target,omitempty"`
	Decoyed       bool      `json:"decoyed,omitempty"`
	Trail         []Vec3    `json:"trail,omitempty"`
}

// LockView is the HUD view of the selected weapon's lock.
type LockView struct {
	Weapon WeaponKey `json:"weapon"`
	Status string    `json:"status"`
	Target string    `json:"target,omitempty"`
	Aim    Vec3      `json:"aim"`
	Dist   float64   `json:"dist"`
	Timer  float64   `json:"timer"`
}

// EntityView carries what a health bar needs.
type EntityView struct {
	Handle   string   `json:"handle"`
	Category Category `json:"category"`
	Pos      Vec3     `json:"pos"`
	HP       float64  `json:"hp"`
	MaxHP    float64  `json:"maxHP"`
}

// TowerView is a tower obstacle and its allegiance.
type TowerView struct {
	Pos     Vec3    `json:"pos"`
	Radius  float64 `json:"radius"`
	Height  float64 `json:"height"`
	Hostile bool    `json:"hostile"`
}

// PlayerView is the player's pose and health.
type PlayerView struct {
	Pos      Vec3    `json:"pos"`
	Heading  float64 `json:"heading"`
	Pitch    float64 `json:"pitch"`
	Roll     float64 `json:"roll"`
	Speed    float64 `json:"speed"`
	HP       float64 `json:"hp"`
	MaxHP    float64 `json:"maxHP"`
	Decoys   int     `json:"decoys"`
	Selected string  `json:"selected"`
}

// Snapshot is a value copy of everything the control and render layers may
// read. It shares no memory with the World.
type Snapshot struct {
	Frame       uint64            `json:"frame"`
	Clock       float64           `json:"clock"`
	Player      PlayerView        `json:"player"`
	Lock        LockView          `json:"lock"`
	Ammo        map[WeaponKey]int `json:"ammo"`
	Projectiles []ProjectileView  `json:"projectiles"`
	Flak        []Vec3            `json:"flak"`
	Decoys      []Vec3            `json:"decoys"`
	Entities    []EntityView      `json:"entities"`
	Towers      []TowerView       `json:"towers"`
	Hits        int               `json:"hits"`
	Kills       int               `json:"kills"`
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Frame: w.frame,
		Clock: w.clock,
		Ammo:  w.Loadout.Counts(),
		Hits:  w.hits,
		Kills: w.kills,
	}
	if p := w.Player; p != nil {
		s.Player = PlayerView{
			Pos: p.Pos, Heading: p.Heading, Pitch: p.Pitch, Roll: p.Roll, Speed: p.Speed,
			HP: p.HP, MaxHP: p.MaxHP, Decoys: w.CM.Stock, Selected: string(w.Loadout.Selected()),
		}
	}

	l := w.lockFor(w.Loadout.Selected())
	s.Lock = LockView{Weapon: l.Weapon, Status: l.Status.String(), Aim: l.Aim, Dist: l.Dist, Timer: l.Timer}
	if l.Target.Valid() {
		s.Lock.Target = l.Target.String()
	}

	s.Projectiles = make([]ProjectileView, 0, len(w.projectiles))
	for _, p := range w.projectiles {
		v := ProjectileView{
			ID:            p.ID,
			Weapon:        p.Weapon,
			Pos:           p.Pos,
			Basis:         BasisFromDir(p.Dir()),
			PlayerSeeking: p.PlayerSeeking,
			Decoyed:       p.Decoy != nil,
			Trail:         append([]Vec3(nil), p.Trail...),
		}
		if p.Current.Valid() {
			v.Target = p.Current.String()
		}
		s.Projectiles = append(s.Projectiles, v)
	}
	s.Flak = make([]Vec3, 0, len(w.flak))
	for _, f := range w.flak {
		s.Flak = append(s.Flak, f.Pos)
	}
	for _, d := range w.CM.Live() {
		if !d.Gone() {
			s.Decoys = append(s.Decoys, d.Pos)
		}
	}
	w.Registry.Each(AllCategories, func(t Target) bool {
		hp, maxHP := t.Health()
		s.Entities = append(s.Entities, EntityView{
			Handle: t.Handle().String(), Category: t.Handle().Category,
			Pos: t.AimPoint(), HP: hp, MaxHP: maxHP,
		})
		return true
	})
	for _, t := range w.Towers {
		s.Towers = append(s.Towers, TowerView{Pos: t.Pos, Radius: t.Radius, Height: t.Height, Hostile: t.Hostile})
	}
	return s
}
