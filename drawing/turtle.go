package drawing

import "math"

// Segment is one drawn line.
type Segment struct {
	From, To Vector
}

type turtle struct {
	pos   Vector
	angle float64
}

// ComputeSegments interprets program as turtle commands:
//
//	F, G  move forward one step and draw
//	f     move forward one step without drawing
//	+     turn left by the delta angle
//	-     turn right by the delta angle
//	[ ]   push and pop position and heading
//
// Other symbols are ignored. A ']' with nothing pushed is ignored too.
func ComputeSegments(program string, s Snapshot) []Segment {
	var (
		segments []Segment
		stack    []turtle
		step     = float64(s.Step)
		t        = turtle{pos: s.StartingPosition, angle: s.StartingAngle}
	)

	for _, r := range program {
		switch r {
		case 'F', 'G', 'f':
			next := Vector{
				X: t.pos.X + step*math.Cos(t.angle),
				Y: t.pos.Y + step*math.Sin(t.angle),
			}
			if r != 'f' {
				segments = append(segments, Segment{From: t.pos, To: next})
			}
			t.pos = next
		case '+':
			t.angle += s.DeltaAngle
		case '-':
			t.angle -= s.DeltaAngle
		case '[':
			stack = append(stack, t)
		case ']':
			if n := len(stack); n > 0 {
				t = stack[n-1]
				stack = stack[:n-1]
			}
		}
	}

	return segments
}

// Bounds returns the smallest box holding every segment. ok is false when
// there are no segments.
func Bounds(segments []Segment) (min, max Vector, ok bool) {
	if len(segments) == 0 {
		return Vector{}, Vector{}, false
	}

	min, max = segments[0].From, segments[0].From
	for _, seg := range segments {
		for _, v := range []Vector{seg.From, seg.To} {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
		}
	}
	return min, max, true
}
