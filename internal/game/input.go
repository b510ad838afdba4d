package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// keySource abstracts keyboard polling so the mapping can be tested.
type keySource interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) Pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenKeys) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

const (
	throttleRate = 0.5 // per second
	gunRepeat    = 6   // frames between rounds while the trigger is held
)

var slotKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

// pilotInput holds the state the keyboard mapping carries between frames.
type pilotInput struct {
	throttle  float64
	heldFrame int
}

// read maps the keyboard to one frame of controls. Arrow keys are the
// stick (down pulls the nose up), Q/E the rudder, W/S the throttle.
func (pi *pilotInput) read(keys keySource, selected combat.WeaponKey, dt float64) combat.Controls {
	var in combat.Controls

	if keys.Pressed(ebiten.KeyArrowDown) {
		in.Pitch += 1
	}
	if keys.Pressed(ebiten.KeyArrowUp) {
		in.Pitch -= 1
	}
	if keys.Pressed(ebiten.KeyArrowRight) || keys.Pressed(ebiten.KeyD) {
		in.Roll += 1
	}
	if keys.Pressed(ebiten.KeyArrowLeft) || keys.Pressed(ebiten.KeyA) {
		in.Roll -= 1
	}
	if keys.Pressed(ebiten.KeyQ) {
		in.Yaw += 1
	}
	if keys.Pressed(ebiten.KeyE) {
		in.Yaw -= 1
	}

	if keys.Pressed(ebiten.KeyW) {
		pi.throttle += throttleRate * dt
	}
	if keys.Pressed(ebiten.KeyS) {
		pi.throttle -= throttleRate * dt
	}
	pi.throttle = max(0, min(1, pi.throttle))
	in.Throttle = pi.throttle

	switch {
	case keys.JustPressed(ebiten.KeySpace):
		in.Fire = true
		pi.heldFrame = 0
	case keys.Pressed(ebiten.KeySpace) && selected == combat.WeaponGun:
		pi.heldFrame++
		in.Fire = pi.heldFrame%gunRepeat == 0
	}

	if keys.JustPressed(ebiten.KeyTab) {
		in.CycleTarget = 1
		if keys.Pressed(ebiten.KeyShift) {
			in.CycleTarget = -1
		}
	}
	for i, k := range slotKeys {
		if keys.JustPressed(k) {
			in.SelectSlot = i + 1
		}
	}
	if keys.JustPressed(ebiten.KeyF) {
		in.DeployDecoy = true
	}
	return in
}
