package game

// RewardCodes is a bitmask of events that occurred during the last applied
// tick. Callers read it as an opaque signal; it is cleared at the start of
// every tick.
type RewardCodes uint64

const (
	RewardNone                  RewardCodes = 0
	RewardAgentDies             RewardCodes = 1 << 0
	RewardCollectDiamond        RewardCodes = 1 << 1
	RewardWalkThroughExit       RewardCodes = 1 << 2
	RewardNutToDiamond          RewardCodes = 1 << 3
	RewardButterflyToDiamond    RewardCodes = 1 << 4
	RewardCollectKey            RewardCodes = 1 << 5
	RewardCollectKeyRed         RewardCodes = 1 << 6
	RewardCollectKeyBlue        RewardCodes = 1 << 7
	RewardCollectKeyGreen       RewardCodes = 1 << 8
	RewardCollectKeyYellow      RewardCodes = 1 << 9
	RewardWalkThroughGate       RewardCodes = 1 << 10
	RewardWalkThroughGateRed    RewardCodes = 1 << 11
	RewardWalkThroughGateBlue   RewardCodes = 1 << 12
	RewardWalkThroughGateGreen  RewardCodes = 1 << 13
	RewardWalkThroughGateYellow RewardCodes = 1 << 14
)

// Has reports whether every bit in mask is set.
func (r RewardCodes) Has(mask RewardCodes) bool {
	return r&mask == mask
}
