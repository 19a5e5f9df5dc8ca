package game

// present replays seq as timed highlight+tone intents. Every wait is a
// continuation on the scheduler; input is refused until the final
// deactivate has been emitted and the ready event sent.
func (g *Engine) present(seq []Cue) {
	gen := g.gen
	g.presenting = true
	g.notify(EventPresenting)

	stale := func() bool { return gen != g.gen }

	var step func(i int)
	step = func(i int) {
		if stale() {
			return
		}
		if i == len(seq) {
			g.presenting = false
			g.notify(EventReady)
			return
		}
		g.sched.After(g.timings.Gap, func() {
			if stale() {
				return
			}
			c := seq[i]
			g.sink.Activate(c)
			g.sink.PlayTone(c.Tone())
			g.sched.After(g.timings.Hold, func() {
				g.sink.Deactivate(c)
				step(i + 1)
			})
		})
	}
	g.sched.After(g.timings.LeadIn, func() { step(0) })
}
