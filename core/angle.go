package core

// AngleWrap is the number of discrete angle units in one revolution of the
// pendulum encoder. Raw tick counts are folded into [0, AngleWrap) before
// transmission.
const AngleWrap = 1200

// NormalizeAngle folds a raw signed tick count into [0, AngleWrap). Go's %
// operator keeps the sign of the dividend, so a negative remainder is
// shifted up by one revolution.
func NormalizeAngle(raw int32) uint16 {
	r := raw % AngleWrap
	if r < 0 {
		r += AngleWrap
	}
	return uint16(r)
}
