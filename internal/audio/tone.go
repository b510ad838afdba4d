// Package audio synthesises the cockpit's seeker tones.
package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// Tone is an endless sine generator that can be gated on and off at a fixed
// rate. A zero PulseHz gives a steady tone.
type Tone struct {
	sr      beep.SampleRate
	freq    float64
	pulseHz float64
	amp     float64
	pos     int
}

// NewTone creates a tone at freq Hz, pulsing pulseHz times per second.
func NewTone(sr beep.SampleRate, freq, pulseHz, amp float64) *Tone {
	return &Tone{sr: sr, freq: freq, pulseHz: pulseHz, amp: amp}
}

func (g *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		s := g.amp * math.Sin(2*math.Pi*g.freq*t)
		if g.pulseHz > 0 && math.Mod(t*g.pulseHz, 1) >= 0.5 {
			s = 0
		}
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *Tone) Err() error { return nil }

// Growl is the seeker-head growl heard while acquiring: a low tone with a
// wobble that rises as the lock timer fills.
type Growl struct {
	sr       beep.SampleRate
	progress float64 // 0..1, read by the audio goroutine
	pos      int
	phase    float64
}

// NewGrowl creates a growl generator.
func NewGrowl(sr beep.SampleRate) *Growl {
	return &Growl{sr: sr}
}

func (g *Growl) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		p := g.progress
		freq := growlBaseHz + (growlTopHz-growlBaseHz)*p
		freq += 25 * math.Sin(2*math.Pi*6*t)
		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase -= 1
		}
		s := 0.2 * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *Growl) Err() error { return nil }
