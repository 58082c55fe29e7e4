package catalog

const catalogVersion = "2026.1"

var (
	numericOps = []Operator{OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte, OpBetween}
	enumOps    = []Operator{OpEq, OpNeq, OpIn}
)

func floatPtr(v float64) *float64 {
	return &v
}

func numberField(key, label string, min, max, step float64) FieldDefinition {
	return FieldDefinition{
		Key:       key,
		Label:     label,
		Type:      ValueTypeNumber,
		Operators: numericOps,
		Min:       floatPtr(min),
		Max:       floatPtr(max),
		Step:      floatPtr(step),
	}
}

func enumField(key, label string, options []Option) FieldDefinition {
	return FieldDefinition{
		Key:       key,
		Label:     label,
		Type:      ValueTypeEnum,
		Operators: enumOps,
		Options:   options,
	}
}

func defaultFields() []FieldDefinition {
	return []FieldDefinition{
		enumField("league", "League", []Option{
			{Value: "premier_league", Label: "Premier League"},
			{Value: "championship", Label: "Championship"},
			{Value: "la_liga", Label: "La Liga"},
			{Value: "serie_a", Label: "Serie A"},
			{Value: "bundesliga", Label: "Bundesliga"},
			{Value: "ligue_1", Label: "Ligue 1"},
			{Value: "eredivisie", Label: "Eredivisie"},
			{Value: "primeira_liga", Label: "Primeira Liga"},
		}),
		enumField("country", "Country", []Option{
			{Value: "england", Label: "England"},
			{Value: "spain", Label: "Spain"},
			{Value: "italy", Label: "Italy"},
			{Value: "germany", Label: "Germany"},
			{Value: "france", Label: "France"},
			{Value: "netherlands", Label: "Netherlands"},
			{Value: "portugal", Label: "Portugal"},
		}),
		enumField("day_of_week", "Day of Week", []Option{
			{Value: "monday", Label: "Monday"},
			{Value: "tuesday", Label: "Tuesday"},
			{Value: "wednesday", Label: "Wednesday"},
			{Value: "thursday", Label: "Thursday"},
			{Value: "friday", Label: "Friday"},
			{Value: "saturday", Label: "Saturday"},
			{Value: "sunday", Label: "Sunday"},
		}),
		numberField("home_odds", "Home Win Odds", 1.01, 1000, 0.01),
		numberField("draw_odds", "Draw Odds", 1.01, 1000, 0.01),
		numberField("away_odds", "Away Win Odds", 1.01, 1000, 0.01),
		numberField("over25_odds", "Over 2.5 Goals Odds", 1.01, 100, 0.01),
		numberField("under25_odds", "Under 2.5 Goals Odds", 1.01, 100, 0.01),
		numberField("btts_odds", "Both Teams To Score Odds", 1.01, 100, 0.01),
		numberField("home_form_points", "Home Form Points (last 5)", 0, 15, 1),
		numberField("away_form_points", "Away Form Points (last 5)", 0, 15, 1),
		numberField("home_position", "Home League Position", 1, 24, 1),
		numberField("away_position", "Away League Position", 1, 24, 1),
		numberField("home_goals_avg", "Home Goals Scored Avg", 0, 10, 0.1),
		numberField("away_goals_avg", "Away Goals Scored Avg", 0, 10, 0.1),
		numberField("home_conceded_avg", "Home Goals Conceded Avg", 0, 10, 0.1),
		numberField("away_conceded_avg", "Away Goals Conceded Avg", 0, 10, 0.1),
		numberField("h2h_home_wins", "Head-to-Head Home Wins", 0, 50, 1),
		numberField("h2h_away_wins", "Head-to-Head Away Wins", 0, 50, 1),
		numberField("h2h_draws", "Head-to-Head Draws", 0, 50, 1),
		numberField("kickoff_hour", "Kickoff Hour (UTC)", 0, 23, 1),
	}
}
