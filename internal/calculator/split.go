package calculator

import (
	"context"
	"fmt"
	"math"
)

// Fixed tolerances for reconciling split totals. Rounding is applied
// per-share without redistributing the remainder, so persisted shares may
// drift from the expense amount by up to 0.01 per participant.
const (
	percentTolerance = 0.001
	amountTolerance  = 0.01
)

// ValidationError is a user-correctable input error with a human-readable
// reason. Handlers surface it as HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RawSplit is one entry of the raw split input: a participant identifier plus
// either a percentage or a fixed share amount.
type RawSplit struct {
	Participant string
	Percentage  *float64
	ShareAmount *float64
}

// ResolvedShare is one participant's concrete monetary share.
type ResolvedShare struct {
	Participant ParticipantRef
	Amount      float64

	// Settled is true exactly when the participant is the payer.
	Settled bool
}

// ResolvedSplit is the validated, materialized result of a split.
type ResolvedSplit struct {
	Payer  ParticipantRef
	Shares []ResolvedShare
}

// GroupContext carries the member user IDs of the group an expense is scoped
// to. A nil GroupContext means a direct two-party expense.
type GroupContext struct {
	Members []string
}

func (g *GroupContext) hasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// SplitResolver validates raw expense input and materializes it into
// per-participant shares.
type SplitResolver struct {
	identities *IdentityResolver
}

// NewSplitResolver creates a split resolver using the given identity
// resolver.
func NewSplitResolver(identities *IdentityResolver) *SplitResolver {
	return &SplitResolver{identities: identities}
}

// Resolve validates the raw splits and computes each participant's share.
//
// The split mode is percentage if any entry carries a percentage, otherwise
// amount; every entry must carry the active mode's field. Percentages must
// total 100 and fixed amounts must total the expense amount, within fixed
// tolerances. With a group context every participant and the payer must
// resolve to a group member; without one, the expense is a direct split
// between exactly two participants, one of them the literal "You".
//
// Returns a *ValidationError for any user-correctable problem; directory
// failures surface as ErrDirectoryUnavailable.
func (s *SplitResolver) Resolve(ctx context.Context, amount float64, payerIdentifier string, splits []RawSplit, requestingUserID string, group *GroupContext) (*ResolvedSplit, error) {
	if amount <= 0 {
		return nil, Validationf("expense amount must be positive")
	}
	if len(splits) == 0 {
		return nil, Validationf("at least one split is required")
	}

	if payerIdentifier == "" {
		return nil, Validationf("expense payer is required")
	}

	percentageMode := false
	for _, split := range splits {
		if split.Participant == "" {
			return nil, Validationf("each split needs a participant")
		}
		if split.Percentage == nil && split.ShareAmount == nil {
			return nil, Validationf("each split needs a percentage or a share amount")
		}
		if split.Percentage != nil {
			percentageMode = true
		}
	}

	if percentageMode {
		total := 0.0
		for _, split := range splits {
			if split.Percentage == nil {
				return nil, Validationf("split for %q is missing a percentage", split.Participant)
			}
			if *split.Percentage < 0 || *split.Percentage > 100 {
				return nil, Validationf("split percentage for %q must be between 0 and 100", split.Participant)
			}
			total += *split.Percentage
		}
		if math.Abs(total-100) > percentTolerance {
			return nil, Validationf("percentages must total 100%%, got %g%%", total)
		}
	} else {
		total := 0.0
		for _, split := range splits {
			if *split.ShareAmount < 0 {
				return nil, Validationf("split amount for %q must not be negative", split.Participant)
			}
			total += *split.ShareAmount
		}
		if math.Abs(total-amount) > amountTolerance {
			return nil, Validationf("split amounts must total the expense amount")
		}
	}

	// A direct expense is strictly two-party and must involve the requester.
	if group == nil {
		if len(splits) != 2 {
			return nil, Validationf("a direct expense must have exactly two participants")
		}
		if splits[0].Participant != You && splits[1].Participant != You {
			return nil, Validationf("a direct expense must include you as a participant")
		}
	}

	payer, err := s.identities.Resolve(ctx, payerIdentifier, requestingUserID)
	if err != nil {
		return nil, err
	}
	if group != nil && (!payer.Registered() || !group.hasMember(payer.UserID)) {
		return nil, Validationf("payer %q is not a member of the group", payerIdentifier)
	}

	resolved := &ResolvedSplit{
		Payer:  payer,
		Shares: make([]ResolvedShare, 0, len(splits)),
	}
	for _, split := range splits {
		ref, err := s.identities.Resolve(ctx, split.Participant, requestingUserID)
		if err != nil {
			return nil, err
		}
		if group != nil && (!ref.Registered() || !group.hasMember(ref.UserID)) {
			return nil, Validationf("participant %q is not a member of the group", split.Participant)
		}

		var share float64
		if percentageMode {
			share = amount * *split.Percentage / 100
		} else {
			share = *split.ShareAmount
		}

		resolved.Shares = append(resolved.Shares, ResolvedShare{
			Participant: ref,
			Amount:      Round2(share),
			Settled:     ref.Equal(payer),
		})
	}

	return resolved, nil
}
