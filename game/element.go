// Package game implements the Boulder Dash cellular-automaton engine.
//
// A GameState is a flat row-major grid of hidden cell kinds plus a handful of
// scalar fields (agent index, gem counters, magic wall budget, blob state, RNG
// word, running hash). One ApplyAction call advances the whole board by one
// synchronized tick. States are deep-clonable and snapshot round-trippable so
// that external search/learning agents can branch on them freely.
package game

// HiddenCellType is the internal identity of a cell. The numeric codes are
// part of the board-string wire format and must not be reordered.
type HiddenCellType int8

const (
	HiddenNull          HiddenCellType = -1
	HiddenAgent         HiddenCellType = 0
	HiddenEmpty         HiddenCellType = 1
	HiddenDirt          HiddenCellType = 2
	HiddenStone         HiddenCellType = 3
	HiddenStoneFalling  HiddenCellType = 4
	HiddenDiamond       HiddenCellType = 5
	HiddenDiamondFall   HiddenCellType = 6
	HiddenExitClosed    HiddenCellType = 7
	HiddenExitOpen      HiddenCellType = 8
	HiddenAgentInExit   HiddenCellType = 9
	HiddenFireflyUp     HiddenCellType = 10
	HiddenFireflyLeft   HiddenCellType = 11
	HiddenFireflyDown   HiddenCellType = 12
	HiddenFireflyRight  HiddenCellType = 13
	HiddenButterflyUp   HiddenCellType = 14
	HiddenButterflyLeft HiddenCellType = 15
	HiddenButterflyDown HiddenCellType = 16
	HiddenButterflyRt   HiddenCellType = 17
	HiddenWallBrick     HiddenCellType = 18
	HiddenWallSteel     HiddenCellType = 19
	HiddenWallMagicDorm HiddenCellType = 20
	HiddenWallMagicOn   HiddenCellType = 21
	HiddenWallMagicExp  HiddenCellType = 22
	HiddenBlob          HiddenCellType = 23
	HiddenExplosionDiam HiddenCellType = 24
	HiddenExplosionBldr HiddenCellType = 25
	HiddenExplosionEmpt HiddenCellType = 26
	HiddenGateRedClosed HiddenCellType = 27
	HiddenGateRedOpen   HiddenCellType = 28
	HiddenKeyRed        HiddenCellType = 29
	HiddenGateBluClosed HiddenCellType = 30
	HiddenGateBluOpen   HiddenCellType = 31
	HiddenKeyBlue       HiddenCellType = 32
	HiddenGateGrnClosed HiddenCellType = 33
	HiddenGateGrnOpen   HiddenCellType = 34
	HiddenKeyGreen      HiddenCellType = 35
	HiddenGateYelClosed HiddenCellType = 36
	HiddenGateYelOpen   HiddenCellType = 37
	HiddenKeyYellow     HiddenCellType = 38
	HiddenNut           HiddenCellType = 39
	HiddenNutFalling    HiddenCellType = 40
	HiddenBomb          HiddenCellType = 41
	HiddenBombFalling   HiddenCellType = 42
	HiddenOrangeUp      HiddenCellType = 43
	HiddenOrangeLeft    HiddenCellType = 44
	HiddenOrangeDown    HiddenCellType = 45
	HiddenOrangeRight   HiddenCellType = 46
	HiddenPebbleInDirt  HiddenCellType = 47
	HiddenStoneInDirt   HiddenCellType = 48
	HiddenVoidInDirt    HiddenCellType = 49
)

// NumHiddenCellTypes is the count of valid hidden kinds (codes 0..49).
const NumHiddenCellTypes = 50

// VisibleCellType is the coarse observable projection of a hidden kind. The
// four facings of a creature collapse to one visible kind, as do the phases
// of falling objects.
type VisibleCellType int8

const (
	VisibleNull          VisibleCellType = -1
	VisibleAgent         VisibleCellType = 0
	VisibleEmpty         VisibleCellType = 1
	VisibleDirt          VisibleCellType = 2
	VisibleStone         VisibleCellType = 3
	VisibleDiamond       VisibleCellType = 4
	VisibleExitClosed    VisibleCellType = 5
	VisibleExitOpen      VisibleCellType = 6
	VisibleAgentInExit   VisibleCellType = 7
	VisibleFirefly       VisibleCellType = 8
	VisibleButterfly     VisibleCellType = 9
	VisibleWallBrick     VisibleCellType = 10
	VisibleWallSteel     VisibleCellType = 11
	VisibleWallMagicOff  VisibleCellType = 12
	VisibleWallMagicOn   VisibleCellType = 13
	VisibleBlob          VisibleCellType = 14
	VisibleExplosion     VisibleCellType = 15
	VisibleGateRedClosed VisibleCellType = 16
	VisibleGateRedOpen   VisibleCellType = 17
	VisibleKeyRed        VisibleCellType = 18
	VisibleGateBluClosed VisibleCellType = 19
	VisibleGateBluOpen   VisibleCellType = 20
	VisibleKeyBlue       VisibleCellType = 21
	VisibleGateGrnClosed VisibleCellType = 22
	VisibleGateGrnOpen   VisibleCellType = 23
	VisibleKeyGreen      VisibleCellType = 24
	VisibleGateYelClosed VisibleCellType = 25
	VisibleGateYelOpen   VisibleCellType = 26
	VisibleKeyYellow     VisibleCellType = 27
	VisibleNut           VisibleCellType = 28
	VisibleBomb          VisibleCellType = 29
	VisibleOrange        VisibleCellType = 30
	VisiblePebbleInDirt  VisibleCellType = 31
	VisibleStoneInDirt   VisibleCellType = 32
	VisibleVoidInDirt    VisibleCellType = 33
)

// NumVisibleCellTypes is the count of valid visible kinds (codes 0..33).
const NumVisibleCellTypes = 34

// Property bit flags consulted by the update rules.
const (
	PropConsumable  = 1 << 0 // destroyed by an adjacent explosion
	PropCanExplode  = 1 << 1 // chains an explosion when reached by one
	PropRounded     = 1 << 2 // objects resting on it may roll off
	PropTraversable = 1 << 3 // agent may land here when passing a gate
	PropPushable    = 1 << 4 // agent may push it horizontally
)

// Element is one immutable catalog entry.
type Element struct {
	Kind       HiddenCellType
	Visible    VisibleCellType
	Properties int
	Glyph      byte
}

// catalog maps every hidden kind to its element entry, indexed by kind.
// Process-wide constant; shared by all states.
var catalog = [NumHiddenCellTypes]Element{
	HiddenAgent:         {HiddenAgent, VisibleAgent, PropConsumable | PropCanExplode, '@'},
	HiddenEmpty:         {HiddenEmpty, VisibleEmpty, PropConsumable | PropTraversable, ' '},
	HiddenDirt:          {HiddenDirt, VisibleDirt, PropConsumable | PropTraversable, '.'},
	HiddenStone:         {HiddenStone, VisibleStone, PropConsumable | PropRounded | PropPushable, 'o'},
	HiddenStoneFalling:  {HiddenStoneFalling, VisibleStone, PropConsumable, 'o'},
	HiddenDiamond:       {HiddenDiamond, VisibleDiamond, PropConsumable | PropRounded | PropTraversable, '*'},
	HiddenDiamondFall:   {HiddenDiamondFall, VisibleDiamond, PropConsumable | PropTraversable, '*'},
	HiddenExitClosed:    {HiddenExitClosed, VisibleExitClosed, 0, 'C'},
	HiddenExitOpen:      {HiddenExitOpen, VisibleExitOpen, 0, 'E'},
	HiddenAgentInExit:   {HiddenAgentInExit, VisibleAgentInExit, 0, '!'},
	HiddenFireflyUp:     {HiddenFireflyUp, VisibleFirefly, PropConsumable | PropCanExplode, 'F'},
	HiddenFireflyLeft:   {HiddenFireflyLeft, VisibleFirefly, PropConsumable | PropCanExplode, 'F'},
	HiddenFireflyDown:   {HiddenFireflyDown, VisibleFirefly, PropConsumable | PropCanExplode, 'F'},
	HiddenFireflyRight:  {HiddenFireflyRight, VisibleFirefly, PropConsumable | PropCanExplode, 'F'},
	HiddenButterflyUp:   {HiddenButterflyUp, VisibleButterfly, PropConsumable | PropCanExplode, 'U'},
	HiddenButterflyLeft: {HiddenButterflyLeft, VisibleButterfly, PropConsumable | PropCanExplode, 'U'},
	HiddenButterflyDown: {HiddenButterflyDown, VisibleButterfly, PropConsumable | PropCanExplode, 'U'},
	HiddenButterflyRt:   {HiddenButterflyRt, VisibleButterfly, PropConsumable | PropCanExplode, 'U'},
	HiddenWallBrick:     {HiddenWallBrick, VisibleWallBrick, PropConsumable, '#'},
	HiddenWallSteel:     {HiddenWallSteel, VisibleWallSteel, 0, 'S'},
	HiddenWallMagicDorm: {HiddenWallMagicDorm, VisibleWallMagicOff, 0, 'M'},
	HiddenWallMagicOn:   {HiddenWallMagicOn, VisibleWallMagicOn, 0, 'W'},
	HiddenWallMagicExp:  {HiddenWallMagicExp, VisibleWallMagicOff, 0, 'X'},
	HiddenBlob:          {HiddenBlob, VisibleBlob, PropConsumable, 'm'},
	HiddenExplosionDiam: {HiddenExplosionDiam, VisibleExplosion, 0, 'x'},
	HiddenExplosionBldr: {HiddenExplosionBldr, VisibleExplosion, 0, 'x'},
	HiddenExplosionEmpt: {HiddenExplosionEmpt, VisibleExplosion, 0, 'x'},
	HiddenGateRedClosed: {HiddenGateRedClosed, VisibleGateRedClosed, 0, 'r'},
	HiddenGateRedOpen:   {HiddenGateRedOpen, VisibleGateRedOpen, 0, 'R'},
	HiddenKeyRed:        {HiddenKeyRed, VisibleKeyRed, PropTraversable, '1'},
	HiddenGateBluClosed: {HiddenGateBluClosed, VisibleGateBluClosed, 0, 'b'},
	HiddenGateBluOpen:   {HiddenGateBluOpen, VisibleGateBluOpen, 0, 'B'},
	HiddenKeyBlue:       {HiddenKeyBlue, VisibleKeyBlue, PropTraversable, '2'},
	HiddenGateGrnClosed: {HiddenGateGrnClosed, VisibleGateGrnClosed, 0, 'g'},
	HiddenGateGrnOpen:   {HiddenGateGrnOpen, VisibleGateGrnOpen, 0, 'G'},
	HiddenKeyGreen:      {HiddenKeyGreen, VisibleKeyGreen, PropTraversable, '3'},
	HiddenGateYelClosed: {HiddenGateYelClosed, VisibleGateYelClosed, 0, 'y'},
	HiddenGateYelOpen:   {HiddenGateYelOpen, VisibleGateYelOpen, 0, 'Y'},
	HiddenKeyYellow:     {HiddenKeyYellow, VisibleKeyYellow, PropTraversable, '4'},
	HiddenNut:           {HiddenNut, VisibleNut, PropConsumable | PropPushable, 'n'},
	HiddenNutFalling:    {HiddenNutFalling, VisibleNut, PropConsumable, 'n'},
	HiddenBomb:          {HiddenBomb, VisibleBomb, PropConsumable | PropCanExplode | PropPushable, 'q'},
	HiddenBombFalling:   {HiddenBombFalling, VisibleBomb, PropConsumable | PropCanExplode, 'q'},
	HiddenOrangeUp:      {HiddenOrangeUp, VisibleOrange, PropConsumable | PropCanExplode, 'Q'},
	HiddenOrangeLeft:    {HiddenOrangeLeft, VisibleOrange, PropConsumable | PropCanExplode, 'Q'},
	HiddenOrangeDown:    {HiddenOrangeDown, VisibleOrange, PropConsumable | PropCanExplode, 'Q'},
	HiddenOrangeRight:   {HiddenOrangeRight, VisibleOrange, PropConsumable | PropCanExplode, 'Q'},
	HiddenPebbleInDirt:  {HiddenPebbleInDirt, VisiblePebbleInDirt, PropConsumable, 'p'},
	HiddenStoneInDirt:   {HiddenStoneInDirt, VisibleStoneInDirt, PropConsumable, 's'},
	HiddenVoidInDirt:    {HiddenVoidInDirt, VisibleVoidInDirt, PropConsumable, 'v'},
}

// Lookup returns the catalog entry for kind. Kind must be a valid hidden kind.
func Lookup(kind HiddenCellType) Element {
	return catalog[kind]
}

// IsValidHidden reports whether code is a valid hidden kind.
func IsValidHidden(code int) bool {
	return code >= 0 && code < NumHiddenCellTypes
}

func isFirefly(k HiddenCellType) bool {
	return k >= HiddenFireflyUp && k <= HiddenFireflyRight
}

func isButterfly(k HiddenCellType) bool {
	return k >= HiddenButterflyUp && k <= HiddenButterflyRt
}

func isOrange(k HiddenCellType) bool {
	return k >= HiddenOrangeUp && k <= HiddenOrangeRight
}

func isMagicWall(k HiddenCellType) bool {
	return k == HiddenWallMagicDorm || k == HiddenWallMagicOn || k == HiddenWallMagicExp
}

func isExplosion(k HiddenCellType) bool {
	return k == HiddenExplosionDiam || k == HiddenExplosionBldr || k == HiddenExplosionEmpt
}

func isKey(k HiddenCellType) bool {
	return k == HiddenKeyRed || k == HiddenKeyBlue || k == HiddenKeyGreen || k == HiddenKeyYellow
}

func isOpenGate(k HiddenCellType) bool {
	return k == HiddenGateRedOpen || k == HiddenGateBluOpen || k == HiddenGateGrnOpen || k == HiddenGateYelOpen
}

// explosionResidue is the residue kind an element leaves behind when it
// explodes. Everything not registered here uses the empty residue.
func explosionResidue(k HiddenCellType) HiddenCellType {
	switch {
	case isButterfly(k):
		return HiddenExplosionDiam
	default:
		return HiddenExplosionEmpt
	}
}

// fallingVariant maps a pushable stationary object to the kind it takes on
// when pushed over a hole.
func fallingVariant(k HiddenCellType) HiddenCellType {
	switch k {
	case HiddenStone:
		return HiddenStoneFalling
	case HiddenNut:
		return HiddenNutFalling
	case HiddenBomb:
		return HiddenBombFalling
	default:
		return k
	}
}

// magicConversion is the magic wall's transmutation table for objects passing
// through it.
func magicConversion(k HiddenCellType) HiddenCellType {
	switch k {
	case HiddenStoneFalling:
		return HiddenDiamondFall
	case HiddenDiamondFall:
		return HiddenStoneFalling
	default:
		return k
	}
}

// explosionSettle maps an explosion residue kind to the inert element it
// becomes once the residue rule runs.
func explosionSettle(k HiddenCellType) HiddenCellType {
	switch k {
	case HiddenExplosionDiam:
		return HiddenDiamond
	case HiddenExplosionBldr:
		return HiddenStone
	default:
		return HiddenEmpty
	}
}

func explosionReward(k HiddenCellType) RewardCodes {
	if k == HiddenExplosionDiam {
		return RewardButterflyToDiamond
	}
	return RewardNone
}

func keyToClosedGate(k HiddenCellType) HiddenCellType {
	switch k {
	case HiddenKeyRed:
		return HiddenGateRedClosed
	case HiddenKeyBlue:
		return HiddenGateBluClosed
	case HiddenKeyGreen:
		return HiddenGateGrnClosed
	default:
		return HiddenGateYelClosed
	}
}

func openGateVariant(k HiddenCellType) HiddenCellType {
	switch k {
	case HiddenGateRedClosed:
		return HiddenGateRedOpen
	case HiddenGateBluClosed:
		return HiddenGateBluOpen
	case HiddenGateGrnClosed:
		return HiddenGateGrnOpen
	case HiddenGateYelClosed:
		return HiddenGateYelOpen
	default:
		return k
	}
}

func keyReward(k HiddenCellType) RewardCodes {
	switch k {
	case HiddenKeyRed:
		return RewardCollectKeyRed
	case HiddenKeyBlue:
		return RewardCollectKeyBlue
	case HiddenKeyGreen:
		return RewardCollectKeyGreen
	default:
		return RewardCollectKeyYellow
	}
}

func gateReward(k HiddenCellType) RewardCodes {
	switch k {
	case HiddenGateRedOpen:
		return RewardWalkThroughGateRed
	case HiddenGateBluOpen:
		return RewardWalkThroughGateBlue
	case HiddenGateGrnOpen:
		return RewardWalkThroughGateGreen
	default:
		return RewardWalkThroughGateYellow
	}
}
