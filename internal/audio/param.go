package audio

import "sort"

type eventKind int

const (
	setValue eventKind = iota
	linearRamp
)

type paramEvent struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automatable node parameter. Its value at any moment is the
// automation timeline evaluated at the context clock plus the summed output
// of any nodes connected to it with ConnectParam.
type Param struct {
	ctx    *Context
	value  float64
	events []paramEvent
	inputs []*nodeBase
}

func newParam(ctx *Context, v float64) *Param {
	return &Param{ctx: ctx, value: v}
}

// Value returns the automated value at the current context time. Modulation
// inputs are not included.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.at(p.ctx.now())
}

// ValueAt evaluates the automation timeline at t seconds.
func (p *Param) ValueAt(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.at(t)
}

// SetValue replaces the intrinsic value and drops any automation.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.value = v
	p.events = p.events[:0]
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(paramEvent{kind: setValue, time: t, value: v})
}

// LinearRampToValueAtTime ramps from the previous event's value to v,
// arriving at time t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(paramEvent{kind: linearRamp, time: t, value: v})
}

// CancelScheduledValues removes every event scheduled at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
	if i < len(p.events) {
		// Keep the value the timeline would have produced so a later read
		// does not jump back to the intrinsic value.
		if i == 0 {
			p.value = p.at(t)
		}
		p.events = p.events[:i]
	}
}

func (p *Param) insert(ev paramEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > ev.time })
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

// at evaluates the timeline without locking.
func (p *Param) at(t float64) float64 {
	if len(p.events) == 0 {
		return p.value
	}
	// Index of the first event strictly after t.
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	fromTime, fromValue := 0.0, p.value
	if i > 0 {
		prev := p.events[i-1]
		fromTime, fromValue = prev.time, prev.value
	}
	if i == len(p.events) {
		return fromValue
	}
	next := p.events[i]
	if next.kind != linearRamp {
		return fromValue
	}
	span := next.time - fromTime
	if span <= 0 {
		return next.value
	}
	return fromValue + (next.value-fromValue)*(t-fromTime)/span
}

// render returns the automated value plus modulation for one frame.
func (p *Param) render(frame int64, t float64) float64 {
	v := p.at(t)
	for _, in := range p.inputs {
		v += in.pull(frame, t)
	}
	return v
}

func (p *Param) removeInput(n *nodeBase) {
	p.inputs = removeNode(p.inputs, n)
}
