package moderation

// Advance applies one message's worth of engagement to (xp, level): XP
// grows by one, and the level increments by exactly one when the new XP
// reaches (level+1)*step.
//
// At most one level is gained per call. Even if step were configured so
// small that a single +1 crossed several thresholds, levels are not
// fast-forwarded; the next messages pick up the remaining transitions one
// at a time. Deterministic, no error conditions.
func Advance(xp, level, step int) (newXP, newLevel int, leveledUp bool) {
	newXP = xp + 1
	newLevel = level
	if newXP >= (level+1)*step {
		newLevel = level + 1
		leveledUp = true
	}
	return newXP, newLevel, leveledUp
}
