package domain

// Segment is one entry of a splice plan: a whole chunk, or the tail of a chunk
// starting at Inpoint when Partial is set.
type Segment struct {
	Seq      int
	Path     string
	Duration float64

	// Inpoint is the start offset in seconds within the chunk. It is only
	// meaningful when Partial is true.
	Inpoint float64
	Partial bool
}

// Covered returns the number of seconds this segment contributes.
func (s Segment) Covered() float64 {
	if s.Partial {
		return s.Duration - s.Inpoint
	}
	return s.Duration
}

// Plan is an ordered splice plan, oldest segment first.
type Plan struct {
	Segments []Segment
}

// Empty returns true if the plan has no segments.
func (p Plan) Empty() bool {
	return len(p.Segments) == 0
}

// Len returns the number of segments in the plan.
func (p Plan) Len() int {
	return len(p.Segments)
}

// Covered returns the total playback duration described by the plan.
func (p Plan) Covered() float64 {
	var total float64
	for _, s := range p.Segments {
		total += s.Covered()
	}
	return total
}

// First returns the oldest segment, or nil if the plan is empty.
func (p Plan) First() *Segment {
	if len(p.Segments) == 0 {
		return nil
	}
	return &p.Segments[0]
}
