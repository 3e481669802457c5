package feed

// CommitThreshold is the horizontal drag distance, in pixels, past which
// releasing the pointer commits a swipe.
const CommitThreshold = 100.0

// Direction is the committed swipe direction.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// SwipeState is the transient gesture state of the top card.
type SwipeState int

const (
	SwipeIdle SwipeState = iota
	SwipeDragging
	SwipeCommitted
)

// Swiper interprets pointer gestures on the top feed card. It is a pure
// state machine: idle until pointer-down, dragging while the pointer moves,
// and committed once the pointer releases past the threshold. The explicit
// Skip and Join actions produce the same committed transition without any
// pointer math.
type Swiper struct {
	state     SwipeState
	startX    float64
	offset    float64
	committed Direction
}

// State returns the current gesture state.
func (s *Swiper) State() SwipeState { return s.state }

// Offset returns the signed horizontal drag distance, zero unless dragging.
func (s *Swiper) Offset() float64 { return s.offset }

// Committed returns the committed direction, DirectionNone unless committed.
func (s *Swiper) Committed() Direction { return s.committed }

// PointerDown captures the pointer and records the start position. Ignored
// while a previous commit is still pending.
func (s *Swiper) PointerDown(x float64) {
	if s.state == SwipeCommitted {
		return
	}
	s.state = SwipeDragging
	s.startX = x
	s.offset = 0
}

// PointerMove updates the drag offset. Ignored unless dragging.
func (s *Swiper) PointerMove(x float64) {
	if s.state != SwipeDragging {
		return
	}
	s.offset = x - s.startX
}

// PointerUp releases the pointer. The drag commits a direction only when
// the offset magnitude exceeds CommitThreshold; otherwise the card snaps
// back with no commit.
func (s *Swiper) PointerUp() Direction {
	if s.state != SwipeDragging {
		return DirectionNone
	}

	offset := s.offset
	s.offset = 0

	if offset > CommitThreshold {
		s.state = SwipeCommitted
		s.committed = DirectionRight
	} else if offset < -CommitThreshold {
		s.state = SwipeCommitted
		s.committed = DirectionLeft
	} else {
		s.state = SwipeIdle
		s.committed = DirectionNone
	}
	return s.committed
}

// Skip commits a left swipe directly, equivalent to dragging past the
// threshold.
func (s *Swiper) Skip() Direction {
	s.state = SwipeCommitted
	s.offset = 0
	s.committed = DirectionLeft
	return s.committed
}

// Join commits a right swipe directly.
func (s *Swiper) Join() Direction {
	s.state = SwipeCommitted
	s.offset = 0
	s.committed = DirectionRight
	return s.committed
}

// Reset clears the committed direction and returns to idle, ready for the
// next card.
func (s *Swiper) Reset() {
	s.state = SwipeIdle
	s.offset = 0
	s.committed = DirectionNone
}
