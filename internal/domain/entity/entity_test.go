package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGift_ClaimStatusFor(t *testing.T) {
	viewer, other := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		claimant *uuid.UUID
		want     ClaimStatus
	}{
		{"unclaimed", nil, ClaimStatusUnclaimed},
		{"claimed by viewer", &viewer, ClaimStatusClaimedByYou},
		{"claimed by someone else", &other, ClaimStatusClaimedByOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGift("Libro", nil, nil, uuid.New(), uuid.New())
			g.ClaimantID = tt.claimant

			assert.Equal(t, tt.want, g.ClaimStatusFor(viewer))
			assert.Equal(t, tt.claimant != nil, g.IsClaimed())
			assert.Equal(t, tt.want == ClaimStatusClaimedByYou, g.IsClaimedBy(viewer))
		})
	}
}

func TestGroup_HasStarted(t *testing.T) {
	start := time.Date(2030, 1, 6, 0, 0, 0, 0, time.UTC)
	g := NewGroup("Reyes", GameModeAnonymousWishlist, CelebrationThreeKings, start, "ABCD2345", uuid.New())

	assert.False(t, g.HasStarted(start.Add(-time.Nanosecond)))
	assert.True(t, g.HasStarted(start))
	assert.True(t, g.HasStarted(start.AddDate(1, 0, 0)))
}

func TestGroup_JoinClosed(t *testing.T) {
	santa := NewGroup("Oficina", GameModeSecretSanta, CelebrationChristmas, time.Now(), "ABCD2345", uuid.New())
	wishlist := NewGroup("Boda", GameModeAnonymousWishlist, CelebrationWedding, time.Now(), "EFGH2345", uuid.New())

	assert.False(t, santa.JoinClosed())
	santa.PairingsDone = true
	assert.True(t, santa.JoinClosed())

	wishlist.PairingsDone = true
	assert.False(t, wishlist.JoinClosed())
}

func TestGameModeAndCelebration_IsValid(t *testing.T) {
	assert.True(t, GameModeSecretSanta.IsValid())
	assert.True(t, GameModeAnonymousWishlist.IsValid())
	assert.False(t, GameMode("raffle").IsValid())
	assert.True(t, CelebrationOther.IsValid())
	assert.False(t, CelebrationType("").IsValid())
}

func TestOutboundEmail_Backoff(t *testing.T) {
	start := time.Date(2030, 12, 24, 9, 0, 0, 0, time.UTC)
	msg := NewOutboundEmail(TemplateEventDay, "ana@example.com", "Ana", "Hoy es el día", nil, start)
	assert.True(t, msg.Due(start))
	assert.NotNil(t, msg.Data)

	wantDelays := []time.Duration{30 * time.Second, 2 * time.Minute, 10 * time.Minute}
	at := start
	for i, delay := range wantDelays {
		msg.Failed(errors.New("timeout"), false, at)
		assert.Equal(t, OutboxQueued, msg.State, "attempt %d", i+1)
		assert.Equal(t, at.Add(delay), msg.NotBefore)
		assert.False(t, msg.Due(at))
		at = msg.NotBefore
	}

	msg.Failed(errors.New("timeout"), false, at)
	assert.Equal(t, OutboxDead, msg.State)
	assert.Equal(t, DefaultMaxAttempts, msg.Attempts)
	assert.Equal(t, at, *msg.FinishedAt)
	assert.False(t, msg.Due(at.Add(time.Hour)))
}

func TestOutboundEmail_PermanentFailure(t *testing.T) {
	now := time.Now().UTC()
	msg := NewOutboundEmail(TemplateGiftChange, "ana@example.com", "Ana", "Cambio", nil, now)

	msg.Failed(errors.New("invalid recipient"), true, now)

	assert.Equal(t, OutboxDead, msg.State)
	assert.Equal(t, 1, msg.Attempts)
	assert.Equal(t, "invalid recipient", msg.LastError)
}

func TestOutboundEmail_DeliveredAfterRetry(t *testing.T) {
	now := time.Now().UTC()
	msg := NewOutboundEmail(TemplateGiftChange, "ana@example.com", "Ana", "Cambio", nil, now)

	msg.Failed(errors.New("503"), false, now)
	msg.Delivered("re_123", now.Add(time.Minute))

	assert.Equal(t, OutboxDelivered, msg.State)
	assert.Equal(t, 2, msg.Attempts)
	assert.Empty(t, msg.LastError)
	assert.Equal(t, "re_123", msg.ProviderID)
}

func TestGroupInvite_ExpiredAt(t *testing.T) {
	deadline := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	invite := NewGroupInvite(uuid.New(), "a@example.com", "t1", uuid.New(), deadline)

	assert.False(t, invite.ExpiredAt(deadline.Add(-time.Minute)))
	assert.False(t, invite.ExpiredAt(deadline))
	assert.True(t, invite.ExpiredAt(deadline.Add(time.Second)))
	assert.Equal(t, InviteStatusPending, invite.Status)
}
