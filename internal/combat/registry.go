package combat

// Registry owns every targetable entity and issues identifiers. Identifiers
// increase monotonically and are never reused, so a stale handle can only
// resolve to "not found".
type Registry struct {
	nextID uint64

	vehicles    []*Vehicle
	towerAA     []*TowerAA
	scatteredAA []*ScatteredAA
	sams        []*SAMSite
	bunkers     []*Bunker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) allocID() uint64 {
	r.nextID++
	return r.nextID
}

// AddVehicle registers an airborne vehicle and assigns its identifier.
func (r *Registry) AddVehicle(v *Vehicle) Handle {
	v.id = r.allocID()
	r.vehicles = append(r.vehicles, v)
	return v.Handle()
}

// AddInstallation creates and registers a ground installation of category cat.
func (r *Registry) AddInstallation(cat Category, base Vec3, spec InstallationSpec) Handle {
	in := Installation{
		hull:   hull{HP: spec.MaxHP, MaxHP: spec.MaxHP},
		id:     r.allocID(),
		cat:    cat,
		Base:   base,
		offset: spec.Offset,
	}
	switch cat {
	case CategoryTowerAA:
		r.towerAA = append(r.towerAA, &TowerAA{Installation: in, battery: battery{Loaded: true}})
	case CategoryScatteredAA:
		r.scatteredAA = append(r.scatteredAA, &ScatteredAA{Installation: in, battery: battery{Loaded: true}})
	case CategorySAM:
		r.sams = append(r.sams, &SAMSite{Installation: in, battery: battery{Loaded: true}})
	case CategoryBunker:
		r.bunkers = append(r.bunkers, &Bunker{Installation: in})
	default:
		// not an installation category; the id is burnt, which is harmless
		return NoHandle
	}
	return in.Handle()
}

// Lookup resolves a handle by linear scan of its category. Dead entities
// still awaiting pruning resolve as not found.
func (r *Registry) Lookup(h Handle) (Target, bool) {
	if !h.Valid() {
		return nil, false
	}
	var found Target
	r.eachIn(h.Category, func(t Target) bool {
		if t.Handle().ID == h.ID {
			found = t
			return false
		}
		return true
	})
	if found == nil || found.Dead() {
		return nil, false
	}
	return found, true
}

// Each visits live entities of the given categories in category-then-insertion
// order. fn returns false to stop early.
func (r *Registry) Each(cats []Category, fn func(Target) bool) {
	for _, c := range cats {
		stopped := false
		r.eachIn(c, func(t Target) bool {
			if t.Dead() {
				return true
			}
			if !fn(t) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

func (r *Registry) eachIn(c Category, fn func(Target) bool) {
	switch c {
	case CategoryAir:
		for _, v := range r.vehicles {
			if !fn(v) {
				return
			}
		}
	case CategoryTowerAA:
		for _, t := range r.towerAA {
			if !fn(t) {
				return
			}
		}
	case CategoryScatteredAA:
		for _, t := range r.scatteredAA {
			if !fn(t) {
				return
			}
		}
	case CategorySAM:
		for _, t := range r.sams {
			if !fn(t) {
				return
			}
		}
	case CategoryBunker:
		for _, t := range r.bunkers {
			if !fn(t) {
				return
			}
		}
	}
}

// Vehicles returns the live airborne vehicle list. Callers must not retain it
// across a prune.
func (r *Registry) Vehicles() []*Vehicle { return r.vehicles }

func (r *Registry) SAMSites() []*SAMSite         { return r.sams }
func (r *Registry) TowerAAs() []*TowerAA         { return r.towerAA }
func (r *Registry) ScatteredAAs() []*ScatteredAA { return r.scatteredAA }
func (r *Registry) Bunkers() []*Bunker           { return r.bunkers }

// Count returns the number of live entities in a category.
func (r *Registry) Count(c Category) int {
	n := 0
	r.Each([]Category{c}, func(Target) bool { n++; return true })
	return n
}

// Prune removes dead entities, and airborne vehicles outside the square
// bound, replacing each list with a freshly built keep list. removed is
// called once per dropped entity with killed=false for bound exits.
func (r *Registry) Prune(bounds float64, removed func(t Target, killed bool)) {
	keptV := make([]*Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		switch {
		case v.Dead():
			removed(v, true)
		case bounds > 0 && (v.Pos.X < -bounds || v.Pos.X > bounds || v.Pos.Y < -bounds || v.Pos.Y > bounds):
			removed(v, false)
		default:
			keptV = append(keptV, v)
		}
	}
	r.vehicles = keptV

	r.towerAA = pruneDead(r.towerAA, removed)
	r.scatteredAA = pruneDead(r.scatteredAA, removed)
	r.sams = pruneDead(r.sams, removed)
	r.bunkers = pruneDead(r.bunkers, removed)
}

func pruneDead[T Target](list []T, removed func(t Target, killed bool)) []T {
	kept := make([]T, 0, len(list))
	for _, t := range list {
		if t.Dead() {
			removed(t, true)
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
