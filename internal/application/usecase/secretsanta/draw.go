// Package secretsanta draws and reads Secret Santa assignments.
package secretsanta

import (
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// Draw shuffles the members and links each position to the next one,
// wrapping at the end. The result is a single cycle, so nobody draws
// themselves when there are at least two members and every member gives
// and receives exactly once.
func Draw(groupID uuid.UUID, memberIDs []uuid.UUID, rnd adapter.RandomSource) []*entity.Pairing {
	n := len(memberIDs)
	if n < 2 {
		return nil
	}

	order := make([]uuid.UUID, n)
	copy(order, memberIDs)
	adapter.Shuffle(rnd, n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	pairings := make([]*entity.Pairing, n)
	for i, giver := range order {
		pairings[i] = entity.NewPairing(groupID, giver, order[(i+1)%n])
	}
	return pairings
}
