package scoring

// Deep-scan aux score weights. Unrelated to the Score factor table.
const (
	AuxBaseline      = 100
	AuxFlagPenalty   = 20
	AuxPositiveBonus = 10
)

// AuxScore returns the clamped deep-scan score for the given counts.
func AuxScore(flags, positives int) int {
	return clamp(AuxBaseline - flags*AuxFlagPenalty + positives*AuxPositiveBonus)
}
