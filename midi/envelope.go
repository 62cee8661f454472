package midi

// This file contains a generic ADSR envelope evaluator over assembled
// notes. The parse path never calls it; it exists for consumers that
// sample note amplitudes over time.

import "math"

// An Interpolation maps the unit interval onto itself and shapes one
// stage of an envelope.
type Interpolation func(float64) float64

// Linear is the identity interpolation.
func Linear(t float64) float64 {
	return t
}

// Envelope holds ADSR parameters for sampling note amplitudes.
type Envelope struct {
	// Durations of the three shaped stages, in seconds.
	AttackTime  float64
	DecayTime   float64
	ReleaseTime float64
	// Stage shapes.
	AttackInterpolation  Interpolation
	DecayInterpolation   Interpolation
	ReleaseInterpolation Interpolation
	// The level held between decay and release, in [0, 1].
	SustainLevel float64
	// How much the note's velocity scales the result: 0 ignores velocity
	// entirely, 1 multiplies the envelope by it fully.
	VelocitySensitivity float64
}

// Evaluates the attack/decay/sustain portion of the envelope, clamped at
// the note's release time.
func evaluateEnvelope(time, timeOn, timeOff float64, env *Envelope) float64 {
	relative := math.Min(time, timeOff) - timeOn
	if relative <= 0.0 {
		return 0.0
	}
	if relative < env.AttackTime {
		return env.AttackInterpolation(relative / env.AttackTime)
	}
	relative -= env.AttackTime
	if relative < env.DecayTime {
		decayed := env.DecayInterpolation(1.0 - relative/env.DecayTime)
		return decayed*(1.0-env.SustainLevel) + env.SustainLevel
	}
	return env.SustainLevel
}

// Evaluate returns the note's amplitude in [0, 1] at the given time.
// Before TimeOn the amplitude is 0; after TimeOff the held value fades
// out over the envelope's release window.
func (n Note) Evaluate(time float64, env *Envelope) float64 {
	if time >= n.TimeOff+env.ReleaseTime {
		return 0.0
	}
	value := evaluateEnvelope(time, n.TimeOn, n.TimeOff, env)
	if time > n.TimeOff {
		value *= env.ReleaseInterpolation(1.0 -
			(time-n.TimeOff)/env.ReleaseTime)
	}
	// With 25% sensitivity, take 75% of the envelope and 25% of the
	// envelope scaled by velocity.
	return (1.0-env.VelocitySensitivity)*value +
		env.VelocitySensitivity*n.Velocity*value
}

// Evaluate returns the maximum amplitude among the track's notes with the
// given channel and note number that are sounding (including their
// release window) at the given time.
func (t *Track) Evaluate(time float64, channel, noteNumber uint8,
	env *Envelope) float64 {
	value := 0.0
	for _, note := range t.Notes {
		if (note.Channel != channel) || (note.NoteNumber != noteNumber) {
			continue
		}
		if (time < note.TimeOn) || (time > note.TimeOff+env.ReleaseTime) {
			continue
		}
		if v := note.Evaluate(time, env); v > value {
			value = v
		}
	}
	return value
}

// EvaluateAll evaluates every note number on the given channel at once,
// returning 128 amplitudes indexed by note number. Each slot holds the
// maximum among that pitch's concurrently-sounding notes.
func (t *Track) EvaluateAll(time float64, channel uint8,
	env *Envelope) []float64 {
	values := make([]float64, 128)
	for _, note := range t.Notes {
		if note.Channel != channel {
			continue
		}
		if (time < note.TimeOn) || (time > note.TimeOff+env.ReleaseTime) {
			continue
		}
		if v := note.Evaluate(time, env); v > values[note.NoteNumber] {
			values[note.NoteNumber] = v
		}
	}
	return values
}
