// Package audio renders cue tones as raw PCM.
//
// A tone is a 400ms sine wave shaped like the browser version's gain node:
// a 10ms linear attack from 0 to 0.2, then an exponential ramp down to 0.01
// at the end of the tone.
package audio

import (
	"math"
	"time"
)

const (
	SampleRate = 44100
	ToneLength = 400 * time.Millisecond

	attack   = 10 * time.Millisecond
	peakGain = 0.2
	endGain  = 0.01
)

// Gain returns the envelope value at offset t into a tone.
func Gain(t time.Duration) float64 {
	switch {
	case t <= 0:
		return 0
	case t < attack:
		return peakGain * float64(t) / float64(attack)
	case t >= ToneLength:
		return endGain
	}
	// exponential ramp peak → end over [attack, ToneLength]
	frac := float64(t-attack) / float64(ToneLength-attack)
	return peakGain * math.Pow(endGain/peakGain, frac)
}

// Tone renders a tone at hz as signed 16-bit little-endian mono PCM.
// Non-positive frequencies or sample rates render nothing.
func Tone(hz float64, sampleRate int) []byte {
	if hz <= 0 || sampleRate <= 0 {
		return nil
	}
	n := int(float64(sampleRate) * ToneLength.Seconds())
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := time.Duration(float64(i) / float64(sampleRate) * float64(time.Second))
		s := math.Sin(2*math.Pi*hz*float64(i)/float64(sampleRate)) * Gain(t)
		v := int16(s * 32767)
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	return buf
}
