package models

// All lists every model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&Team{},
		&Player{},
		&Game{},
		&GameLine{},
		&TeamStanding{},
		&TeamSeasonStat{},
		&TeamGameStat{},
		&RosterEntry{},
		&PlayerSeasonStat{},
		&PlayerGameStat{},
		&PlayerProp{},
		&Injury{},
		&SmashFeature{},
		&SmashScore{},
	}
}
