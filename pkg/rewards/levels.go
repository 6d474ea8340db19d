package rewards

// LevelForPoints returns the highest level whose threshold is at or below the
// point total; level 1 when nothing qualifies.
func LevelForPoints(totalPoints int) int {
	for index := len(levelTable) - 1; index >= 0; index-- {
		if totalPoints >= levelTable[index].PointsRequired {
			return levelTable[index].Level
		}
	}
	return 1
}

// LevelInfoFor returns the table entry for a level, falling back to the first
// tier for unknown levels.
func LevelInfoFor(level int) LevelInfo {
	for _, info := range levelTable {
		if info.Level == level {
			return info
		}
	}
	return levelTable[0]
}

// NextLevelInfo returns the tier above the given level; ok is false at the top.
func NextLevelInfo(level int) (LevelInfo, bool) {
	for _, info := range levelTable {
		if info.Level == level+1 {
			return info, true
		}
	}
	return LevelInfo{}, false
}

// ProgressToNextLevel reports percentage progress from the current tier toward
// the next one, clamped to [0,100]. The top tier always reports 100.
func ProgressToNextLevel(totalPoints int) float64 {
	currentInfo := LevelInfoFor(LevelForPoints(totalPoints))
	nextInfo, hasNext := NextLevelInfo(currentInfo.Level)
	if !hasNext {
		return 100
	}
	span := float64(nextInfo.PointsRequired - currentInfo.PointsRequired)
	progress := float64(totalPoints-currentInfo.PointsRequired) / span * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// Levels returns a copy of the static level table.
func Levels() []LevelInfo {
	table := make([]LevelInfo, len(levelTable))
	copy(table, levelTable)
	return table
}
