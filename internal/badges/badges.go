// Package badges holds the reputation rules. Derivation is a pure function
// of the provider's current stats, so recomputing on unchanged state always
// yields the same set.
package badges

import (
	"decorconnect/internal/entities"
)

const (
	premiumMinReservations = 15
	premiumMinRating       = 4.0
	premiumMinPublished    = 10

	topRatedMinRating       = 4.5
	mostBookedMinCount      = 10
	projectMasterMinPublish = 10
)

// Derive computes the badge set with first-match precedence: the premium
// tier is exclusive, everything below accumulates independently.
func Derive(reservationCount int, averageRating float64, publishedWorkCount int) []entities.Badge {
	if reservationCount >= premiumMinReservations &&
		averageRating >= premiumMinRating &&
		publishedWorkCount >= premiumMinPublished {
		return []entities.Badge{entities.BadgePremiumDesigner}
	}

	var set []entities.Badge
	if averageRating >= topRatedMinRating {
		set = append(set, entities.BadgeTopRated)
	}
	if reservationCount >= mostBookedMinCount {
		set = append(set, entities.BadgeMostBooked)
	}
	if reservationCount == 0 && averageRating == 0 {
		set = append(set, entities.BadgeNewTalent)
	}
	if publishedWorkCount >= projectMasterMinPublish {
		set = append(set, entities.BadgeProjectMaster)
	}
	return set
}
