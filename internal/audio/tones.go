package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

const (
	sampleRate = beep.SampleRate(44100)

	growlBaseHz = 220.0
	growlTopHz  = 440.0
	lockHz      = 1000.0
	warningHz   = 1400.0
	warningRate = 8.0 // pulses per second
)

// Cockpit owns the lock and warning tones and mixes them to the speaker.
// Without Initialize it still tracks state, which is all tests need.
type Cockpit struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	growl       *Growl
	growlCtrl   *beep.Ctrl
	lockCtrl    *beep.Ctrl
	warnCtrl    *beep.Ctrl
	volume      *effects.Volume
	initialized bool

	status  combat.LockStatus
	warning bool
}

// NewCockpit builds the tone graph with every tone paused.
func NewCockpit() *Cockpit {
	c := &Cockpit{mixer: &beep.Mixer{}}
	c.growl = NewGrowl(sampleRate)
	c.growlCtrl = &beep.Ctrl{Streamer: c.growl, Paused: true}
	c.lockCtrl = &beep.Ctrl{Streamer: NewTone(sampleRate, lockHz, 0, 0.2), Paused: true}
	c.warnCtrl = &beep.Ctrl{Streamer: NewTone(sampleRate, warningHz, warningRate, 0.25), Paused: true}
	c.mixer.Add(c.growlCtrl, c.lockCtrl, c.warnCtrl)
	c.volume = &effects.Volume{Streamer: c.mixer, Base: 2}
	return c
}

// Initialize opens the speaker and starts playback.
func (c *Cockpit) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.volume)
	c.initialized = true
	return nil
}

// Close stops playback.
func (c *Cockpit) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}

// Update sets the tones for the lock record and the missile warning.
func (c *Cockpit) Update(lock combat.LockState, lockTime float64, warning bool) {
	progress := 0.0
	if lockTime > 0 {
		progress = math.Min(1, lock.Timer/lockTime)
	}
	c.withSpeaker(func() {
		c.status = lock.Status
		c.warning = warning
		c.growl.progress = progress
		c.growlCtrl.Paused = lock.Status != combat.LockAcquiring
		c.lockCtrl.Paused = lock.Status != combat.LockLocked
		c.warnCtrl.Paused = !warning
	})
}

// SetVolume sets the master level in the range 0..1.
func (c *Cockpit) SetVolume(v float64) {
	c.withSpeaker(func() {
		if v <= 0 {
			c.volume.Silent = true
			return
		}
		c.volume.Silent = false
		c.volume.Volume = math.Log2(math.Min(v, 1))
	})
}

// Playing reports which tones are audible.
func (c *Cockpit) Playing() (growl, lock, warning bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.growlCtrl.Paused, !c.lockCtrl.Paused, !c.warnCtrl.Paused
}

// withSpeaker runs fn holding both our lock and, when playing, the speaker's.
func (c *Cockpit) withSpeaker(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}
