package combat

// decoy drift model
const (
	decoyEjectBack  = 15.0 // metres behind the player at release
	decoyInherit    = 0.5  // fraction of player velocity kept at release
	decoyDrag       = 1.2  // 1/s, horizontal velocity decay
	decoyGravity    = 9.8
	decoyTerminalVz = -25.0
)

// Decoy is a flare.
type Decoy struct {
	ID       uint64
	Pos      Vec3
	Vel      Vec3
	Age      float64
	Lifetime float64
	gone     bool
}

// Gone reports whether the decoy has burnt out or been consumed.
func (d *Decoy) Gone() bool { return d.gone }

// Countermeasures spawns, ages and offers decoys.
type Countermeasures struct {
	decoys   []*Decoy
	Stock    int
	cooldown float64
	nextID   uint64

	Lifetime float64
	Reload   float64
}

// NewCountermeasures creates a dispenser loaded with stock decoys.
func NewCountermeasures(stock int, lifetime, reload float64) *Countermeasures {
	return &Countermeasures{Stock: stock, Lifetime: lifetime, Reload: reload}
}

// Ready reports whether Deploy would succeed.
func (c *Countermeasures) Ready() bool { return c.cooldown <= 0 && c.Stock > 0 }

// Cooldown returns seconds until the next release is allowed.
func (c *Countermeasures) Cooldown() float64 { return c.cooldown }

// Deploy releases one decoy behind the player.
func (c *Countermeasures) Deploy(p *Player) (*Decoy, error) {
	if c.Stock <= 0 {
		return nil, ErrNoDecoys
	}
	if c.cooldown > 0 {
		return nil, ErrDecoyCooldown
	}
	c.nextID++
	fwd := p.Forward()
	d := &Decoy{
		ID:       c.nextID,
		Pos:      p.Pos.Sub(fwd.Scale(decoyEjectBack)),
		Vel:      p.Velocity().Scale(decoyInherit),
		Lifetime: c.Lifetime,
	}
	c.decoys = append(c.decoys, d)
	c.Stock--
	c.cooldown = c.Reload
	return d, nil
}

// Spawn places a decoy directly, outside the stock and cooldown rules.
func (c *Countermeasures) Spawn(pos Vec3) *Decoy {
	c.nextID++
	d := &Decoy{ID: c.nextID, Pos: pos, Lifetime: c.Lifetime}
	c.decoys = append(c.decoys, d)
	return d
}

// Update ages and drifts decoys, then replaces the list with the survivors.
func (c *Countermeasures) Update(dt float64) {
	if c.cooldown > 0 {
		c.cooldown -= dt
	}
	kept := make([]*Decoy, 0, len(c.decoys))
	for _, d := range c.decoys {
		if d.gone {
			continue
		}
		d.Age += dt
		if d.Age >= d.Lifetime {
			d.gone = true
			continue
		}
		drag := 1 - decoyDrag*dt
		if drag < 0 {
			drag = 0
		}
		d.Vel.X *= drag
		d.Vel.Y *= drag
		d.Vel.Z -= decoyGravity * dt
		if d.Vel.Z < decoyTerminalVz {
			d.Vel.Z = decoyTerminalVz
		}
		d.Pos = d.Pos.Add(d.Vel.Scale(dt))
		kept = append(kept, d)
	}
	c.decoys = kept
}

// Consume marks a decoy as used up by a direct hit. It leaves the list at
// the next Update.
func (c *Countermeasures) Consume(d *Decoy) {
	if d != nil {
		d.gone = true
	}
}

// Nearest returns the live decoy with the smallest angular offset from dir
// as seen from pos, considering only decoys whose offset cosine is at least
// minCos. It returns nil when none qualifies.
func (c *Countermeasures) Nearest(pos, dir Vec3, minCos float64) *Decoy {
	var best *Decoy
	bestCos := minCos
	for _, d := range c.decoys {
		if d.gone {
			continue
		}
		to := d.Pos.Sub(pos).Norm()
		if to.LenSq() == 0 {
			continue
		}
		cos := to.Dot(dir)
		if cos >= bestCos && (best == nil || cos > bestCos) {
			best = d
			bestCos = cos
		}
	}
	return best
}

// Live returns the current decoy list.
func (c *Countermeasures) Live() []*Decoy { return c.decoys }
