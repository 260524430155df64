package balance

import (
	"sort"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/game"
)

// scoreTable computes the 0-100 balance score for the table given one
// iteration's per-card aggregates. Cards with fewer than the significance
// threshold of plays are skipped. The overall score is the mean of per-card
// totals; an iteration with no significant card scores 0.
func scoreTable(cards []game.Card, stats map[string]*CardStats, target float64) (float64, []CardScore) {
	significant := make([]game.Card, 0, len(cards))
	totalPlays := 0
	for _, c := range cards {
		cs, ok := stats[c.Key()]
		if !ok || cs.Plays < constants.MinPlaysForSignificance {
			continue
		}
		significant = append(significant, c)
		totalPlays += cs.Plays
	}
	if len(significant) == 0 {
		return 0, nil
	}

	var scores []CardScore
	sum := 0.0
	for _, c := range significant {
		sc := scoreCard(c, stats[c.Key()], totalPlays, target)
		scores = append(scores, sc)
		sum += sc.Total
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Total > scores[j].Total })
	return sum / float64(len(scores)), scores
}

func scoreCard(c game.Card, cs *CardStats, totalPlays int, target float64) CardScore {
	winRate := cs.WinRate()

	winRateScore := 0.0
	if diff := winRate - target; diff >= -0.1 && diff <= 0.1 {
		winRateScore = 40
	}

	avgDamage := float64(cs.TotalDamage) / float64(cs.Plays)
	damageScore := avgDamage / 10
	if damageScore > 30 {
		damageScore = 30
	}

	// Play rate is the card's share of all significant plays, so the
	// component separates ubiquitous cards from barely-played ones.
	playRate := 0.0
	if totalPlays > 0 {
		playRate = float64(cs.Plays) / float64(totalPlays)
	}
	playRateScore := playRate * 200
	if playRateScore > 20 {
		playRateScore = 20
	}

	efficiency := costEfficiency(c)

	return CardScore{
		Key:            c.Key(),
		WinRate:        winRate,
		Plays:          cs.Plays,
		WinRateScore:   winRateScore,
		DamageScore:    damageScore,
		PlayRateScore:  playRateScore,
		CostEfficiency: efficiency,
		Total:          winRateScore + damageScore + playRateScore + efficiency,
	}
}

// costEfficiency scores how well a card's stat line matches the expected
// power for its cost, capped at 10.
func costEfficiency(c game.Card) float64 {
	expected, ok := constants.ExpectedPowerByCost[c.Cost]
	if !ok || expected <= 0 {
		return 0
	}
	power := float64(c.Attack) + 0.6*float64(c.Defense)
	score := power / expected * 10
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ultimatePower scores an ultimate's overall strength on [0,1]. Used only to
// shrink tuning magnitude for cards whose power lives in the ultimate rather
// than the stat line.
func ultimatePower(u ability.Ultimate) float64 {
	power := u.DamageMultiplier / 3
	if power > 0.4 {
		power = 0.4
	}
	for key, val := range u.Effects {
		switch key {
		case "flat_damage":
			c := val / 1000
			if c > 0.3 {
				c = 0.3
			}
			power += c
		case "aoe_damage":
			power += 0.3
		case "heal_self":
			c := val / 500
			if c > 0.2 {
				c = 0.2
			}
			power += c
		case "ignore_defense":
			power += 0.2
		case "stun":
			power += 0.2
		case "summon":
			power += 0.3
		default:
			power += 0.1
		}
	}
	if power < 0 {
		power = 0
	}
	if power > 1 {
		power = 1
	}
	return power
}
