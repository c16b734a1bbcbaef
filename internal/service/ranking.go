package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"bazaar/internal/models"
)

// RankingPolicy holds the tunable weights for text search scoring. The score
// of a listing is additive:
//
//	score = textRelevance + FeaturedBoost·[featured] + RecencyWeight·decay(age)
//
// where textRelevance is term frequency against title and description (title
// hits weighted by TitleWeight) and decay halves every RecencyHalfLife. Ties
// break on ascending listing id so identical requests paginate identically.
type RankingPolicy struct {
	TitleWeight     float64
	FeaturedBoost   float64
	RecencyWeight   float64
	RecencyHalfLife time.Duration
}

// DefaultRankingPolicy returns the weights used in production. Kept behind a
// constructor so experiments can swap weights without touching the engine.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		TitleWeight:     2.0,
		FeaturedBoost:   1.5,
		RecencyWeight:   1.0,
		RecencyHalfLife: 72 * time.Hour,
	}
}

// Score computes the ranking score of one listing for the given lowercase
// search terms at time now.
func (p RankingPolicy) Score(listing *models.Listing, terms []string, now time.Time) float64 {
	title := strings.ToLower(listing.Title)
	description := strings.ToLower(listing.Description)

	var relevance float64
	for _, term := range terms {
		relevance += p.TitleWeight * float64(strings.Count(title, term))
		relevance += float64(strings.Count(description, term))
	}

	score := relevance
	if listing.Featured {
		score += p.FeaturedBoost
	}

	age := now.Sub(listing.CreatedAt)
	if age < 0 {
		age = 0
	}
	halfLives := float64(age) / float64(p.RecencyHalfLife)
	score += p.RecencyWeight * math.Exp2(-halfLives)

	return score
}

// Rank orders listings by descending score. The input must already be ordered
// by ascending id; the stable sort preserves that order for equal scores.
func (p RankingPolicy) Rank(listings []*models.Listing, terms []string, now time.Time) {
	scores := make(map[uint]float64, len(listings))
	for _, l := range listings {
		scores[l.ID] = p.Score(l, terms, now)
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return scores[listings[i].ID] > scores[listings[j].ID]
	})
}
