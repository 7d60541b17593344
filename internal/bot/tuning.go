package bot

import botinternal "tichu/internal/bot/internal"

// DefaultWeights balances captured points against hand structure. Bombs and
// straights hold cards that empty the hand in one stroke; stranded low
// singles are the slowest way out.
var DefaultWeights = botinternal.Weights{
	Bomb:         30.0,
	StraightCard: 2.0,
	Triple:       8.0,
	Pair:         4.0,
	HighSingle:   3.0,
	LowSingle:    -1.5,
	PointDiff:    1.0,
	FinishFirst:  40.0,
	CardsLeft:    -2.5,
}

// bombMargin is how much better bombing must look than staying quiet before
// an out-of-turn bomb is thrown.
const bombMargin = 5.0
