package scenario

import "github.com/isucon/isucandar/score"

// score tag per request class; underscore-prefixed tags do not add points

const (
	ScoreCallCreate    score.ScoreTag = "1.CallCreate    "
	ScoreCallUpdate    score.ScoreTag = "2.CallUpdate    "
	ScoreReadScheduled score.ScoreTag = "3.ReadScheduled "
	ScoreReadHeavy     score.ScoreTag = "4.ReadHeavy     "
	ScoreQuotaComplete score.ScoreTag = "_1.QuotaComplete"
)

// SetScoreTags zero-fills every tag so classes that never fired still
// show up in the breakdown.
func SetScoreTags(scoreTable score.ScoreTable) {
	setScoreTag(scoreTable, ScoreCallCreate)
	setScoreTag(scoreTable, ScoreCallUpdate)
	setScoreTag(scoreTable, ScoreReadScheduled)
	setScoreTag(scoreTable, ScoreReadHeavy)
	setScoreTag(scoreTable, ScoreQuotaComplete)
}

func setScoreTag(scoreTable score.ScoreTable, tag score.ScoreTag) {
	if _, ok := scoreTable[tag]; !ok {
		scoreTable[tag] = 0
	}
}
