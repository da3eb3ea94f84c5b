package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

const (
	CompetitionIDLiga1Indonesia = "idn-liga-1-2025"
	CompetitionIDPremierLeague  = "eng-premier-league-2025"

	LeagueIDWarkopPundit = "lg-warkop-pundit"
	LeagueIDOfficeBanter = "lg-office-banter"
)

func intPtr(v int) *int { return &v }

func SeedMatches() []match.Fact {
	return []match.Fact{
		{
			ID:            "mx-idn-001",
			CompetitionID: CompetitionIDLiga1Indonesia,
			HomeTeamID:    "idn-persija",
			AwayTeamID:    "idn-persib",
			KickoffAt:     time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC),
			Status:        match.StatusFinished,
			HomeScore:     intPtr(2),
			AwayScore:     intPtr(1),
		},
		{
			ID:            "mx-idn-002",
			CompetitionID: CompetitionIDLiga1Indonesia,
			HomeTeamID:    "idn-persebaya",
			AwayTeamID:    "idn-baliutd",
			KickoffAt:     time.Date(2026, 2, 15, 12, 30, 0, 0, time.UTC),
			Status:        match.StatusFinished,
			HomeScore:     intPtr(0),
			AwayScore:     intPtr(0),
		},
		{
			ID:            "mx-idn-003",
			CompetitionID: CompetitionIDLiga1Indonesia,
			HomeTeamID:    "idn-persib",
			AwayTeamID:    "idn-persebaya",
			KickoffAt:     time.Date(2026, 2, 21, 12, 30, 0, 0, time.UTC),
			Status:        match.StatusFinished,
			HomeScore:     intPtr(3),
			AwayScore:     intPtr(1),
		},
		{
			ID:            "mx-idn-004",
			CompetitionID: CompetitionIDLiga1Indonesia,
			HomeTeamID:    "idn-baliutd",
			AwayTeamID:    "idn-persija",
			KickoffAt:     time.Date(2026, 2, 22, 12, 30, 0, 0, time.UTC),
			Status:        match.StatusScheduled,
		},
		{
			ID:            "mx-idn-005",
			CompetitionID: CompetitionIDLiga1Indonesia,
			HomeTeamID:    "idn-persija",
			AwayTeamID:    "idn-persebaya",
			KickoffAt:     time.Date(2026, 2, 28, 12, 30, 0, 0, time.UTC),
			Status:        match.StatusScheduled,
		},
		{
			ID:            "mx-eng-001",
			CompetitionID: CompetitionIDPremierLeague,
			HomeTeamID:    "eng-ars",
			AwayTeamID:    "eng-liv",
			KickoffAt:     time.Date(2026, 2, 14, 15, 0, 0, 0, time.UTC),
			Status:        match.StatusScheduled,
		},
	}
}

func SeedBotProfiles() []botprofile.Profile {
	return []botprofile.Profile{
		{
			ID:            "bot-steady-eddie",
			LeagueID:      LeagueIDWarkopPundit,
			ParticipantID: "pt-bot-steady",
			Name:          "Steady Eddie",
			Weights: botprofile.Weights{
				Form:          0.30,
				DefensiveForm: 0.20,
				XG:            0.20,
				XGAgainst:     0.10,
				Odds:          0.15,
				Injuries:      0.05,
			},
			RiskAppetite: 0.2,
		},
		{
			ID:            "bot-sharp-shooter",
			LeagueID:      LeagueIDWarkopPundit,
			ParticipantID: "pt-bot-sharp",
			Name:          "Sharp Shooter",
			Weights: botprofile.Weights{
				Form:          0.15,
				DefensiveForm: 0.05,
				XG:            0.30,
				XGAgainst:     0.10,
				Odds:          0.30,
				Injuries:      0.10,
			},
			RiskAppetite: 0.8,
		},
		{
			ID:            "bot-market-mimic",
			LeagueID:      LeagueIDOfficeBanter,
			ParticipantID: "pt-bot-mimic",
			Name:          "Market Mimic",
			Weights: botprofile.Weights{
				Form:          0.10,
				DefensiveForm: 0.10,
				XG:            0.10,
				XGAgainst:     0.10,
				Odds:          0.55,
				Injuries:      0.05,
			},
			RiskAppetite: 0.5,
		},
	}
}
