package secretsanta

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/integration/adapters"
	"github.com/giftcircle/backend/internal/testutil"
)

func memberIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestDraw_IsDerangement(t *testing.T) {
	groupID := uuid.New()
	rnd := adapters.NewSeededRandomSource(1, 2)

	for n := 2; n <= 12; n++ {
		for round := 0; round < 25; round++ {
			ids := memberIDs(n)
			pairings := Draw(groupID, ids, rnd)
			require.Len(t, pairings, n)

			givers := map[uuid.UUID]bool{}
			receivers := map[uuid.UUID]bool{}
			for _, p := range pairings {
				assert.Equal(t, groupID, p.GroupID)
				assert.NotEqual(t, p.GiverID, p.ReceiverID, "member drew themselves")
				assert.False(t, givers[p.GiverID], "giver repeated")
				assert.False(t, receivers[p.ReceiverID], "receiver repeated")
				givers[p.GiverID] = true
				receivers[p.ReceiverID] = true
			}
			for _, id := range ids {
				assert.True(t, givers[id])
				assert.True(t, receivers[id])
			}
		}
	}
}

func TestDraw_FormsSingleCycle(t *testing.T) {
	ids := memberIDs(7)
	pairings := Draw(uuid.New(), ids, adapters.NewSeededRandomSource(3, 4))

	next := map[uuid.UUID]uuid.UUID{}
	for _, p := range pairings {
		next[p.GiverID] = p.ReceiverID
	}

	start := ids[0]
	current := start
	for i := 0; i < len(ids); i++ {
		current = next[current]
	}
	assert.Equal(t, start, current)

	current = next[start]
	steps := 1
	for current != start {
		current = next[current]
		steps++
	}
	assert.Equal(t, len(ids), steps)
}

func TestDraw_TwoMembersSwap(t *testing.T) {
	ids := memberIDs(2)
	pairings := Draw(uuid.New(), ids, &testutil.SequenceRandom{Values: []int{0}})

	require.Len(t, pairings, 2)
	assert.Equal(t, pairings[0].GiverID, pairings[1].ReceiverID)
	assert.Equal(t, pairings[1].GiverID, pairings[0].ReceiverID)
}

func TestDraw_TooFewMembers(t *testing.T) {
	assert.Nil(t, Draw(uuid.New(), nil, &testutil.SequenceRandom{}))
	assert.Nil(t, Draw(uuid.New(), memberIDs(1), &testutil.SequenceRandom{}))
}

func TestDraw_DoesNotMutateInput(t *testing.T) {
	ids := memberIDs(5)
	original := append([]uuid.UUID(nil), ids...)

	Draw(uuid.New(), ids, adapters.NewSeededRandomSource(9, 9))

	assert.Equal(t, original, ids)
}
