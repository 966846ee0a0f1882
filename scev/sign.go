package scev

// Sign classifies a chrec's value as seen across a loop's iterations,
// mirroring chrec_is_positive's {negative, zero, positive, don't know}
// result shape (the original returns a bool plus an out-param; this package
// makes the four-way result explicit instead).
type Sign int

const (
	SignUnknown Sign = iota
	SignNegative
	SignZero
	SignPositive
)

// SignAt is chrec_is_positive generalized to a full sign classification: it
// lets a caller (a bounds-check or overflow-check pass) decide an
// induction's direction without re-deriving it from the chrec's shape
// (spec §4.3's retained helper, "NEW, from
// original_source/tree-scalar-evolution.c").
func SignAt(c Chrec, loop *Loop) Sign {
	switch v := c.(type) {
	case Constant:
		return signOfConstant(v)
	case Poly:
		return signOfPoly(v, loop)
	case Expo:
		return signOfExpo(v, loop)
	case Interval:
		return signOfInterval(v, loop)
	case Peeled:
		return signOfPeeled(v, loop)
	default: // Top, Bot
		return SignUnknown
	}
}

func signOfConstant(c Constant) Sign {
	v, ok := constInt(c.Value)
	if !ok {
		return SignUnknown
	}
	switch {
	case v > 0:
		return SignPositive
	case v < 0:
		return SignNegative
	default:
		return SignZero
	}
}

// signOfPoly approximates chrec_is_positive's reasoning for {left, +,
// right}_loop: an induction whose initial value and step both point the
// same way (or the step is zero) keeps that sign for every x >= 0; a step
// of the opposite sign from the initial value could cross zero, so the
// result is unknown without actually bounding x.
func signOfPoly(p Poly, loop *Loop) Sign {
	left := SignAt(p.Left, loop)
	right := SignAt(p.Right, loop)
	switch {
	case left == SignPositive && (right == SignPositive || right == SignZero):
		return SignPositive
	case left == SignNegative && (right == SignNegative || right == SignZero):
		return SignNegative
	case left == SignZero && right == SignZero:
		return SignZero
	default:
		return SignUnknown
	}
}

// signOfExpo approximates the sign of {left, *, right}_loop = left *
// right^x: a positive base raised to any power stays positive; a zero base
// stays zero; anything else (a negative or unknown base, since the
// exponent's parity would alternate the sign) is unknown.
func signOfExpo(e Expo, loop *Loop) Sign {
	left := SignAt(e.Left, loop)
	right := SignAt(e.Right, loop)
	switch {
	case left == SignZero:
		return SignZero
	case left == SignPositive && right == SignPositive:
		return SignPositive
	default:
		return SignUnknown
	}
}

func signOfInterval(i Interval, loop *Loop) Sign {
	lo := SignAt(i.Lo, loop)
	hi := SignAt(i.Hi, loop)
	switch {
	case lo == SignPositive && hi == SignPositive:
		return SignPositive
	case lo == SignNegative && hi == SignNegative:
		return SignNegative
	case lo == SignZero && hi == SignZero:
		return SignZero
	default:
		return SignUnknown
	}
}

func signOfPeeled(p Peeled, loop *Loop) Sign {
	first := SignAt(p.First, loop)
	rest := SignAt(p.Rest, loop)
	if first == rest {
		return first
	}
	return SignUnknown
}
