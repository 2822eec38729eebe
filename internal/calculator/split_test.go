package calculator

import (
	"context"
	"errors"
	"math"
	"testing"
)

func fptr(v float64) *float64 {
	return &v
}

func newTestResolver(byName map[string]string) *SplitResolver {
	return NewSplitResolver(NewIdentityResolver(&fakeDirectory{byName: byName}))
}

func TestSplitResolver_Resolve(t *testing.T) {
	bobID := "6f1c1b9e-7b52-4a7e-9a43-333333333333"
	directory := map[string]string{"Alice": aliceID, "Bob": bobID}

	tests := []struct {
		name         string
		amount       float64
		payer        string
		splits       []RawSplit
		group        *GroupContext
		wantErr      bool
		validateFunc func(t *testing.T, resolved *ResolvedSplit)
	}{
		{
			name:   "percentage split between requester and a friend",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice", Percentage: fptr(50)},
			},
			validateFunc: func(t *testing.T, resolved *ResolvedSplit) {
				if !resolved.Payer.Equal(KnownParticipant(requesterID)) {
					t.Errorf("payer = %v, want requester", resolved.Payer)
				}
				for _, share := range resolved.Shares {
					if math.Abs(share.Amount-50) > 0.01 {
						t.Errorf("share = %v, want 50", share.Amount)
					}
				}
				if !resolved.Shares[0].Settled {
					t.Error("payer's own share should be settled")
				}
				if resolved.Shares[1].Settled {
					t.Error("friend's share should be unsettled")
				}
			},
		},
		{
			name:   "amount split returns amounts verbatim",
			amount: 80,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, ShareAmount: fptr(30.5)},
				{Participant: "Alice", ShareAmount: fptr(49.5)},
			},
			validateFunc: func(t *testing.T, resolved *ResolvedSplit) {
				if resolved.Shares[0].Amount != 30.5 || resolved.Shares[1].Amount != 49.5 {
					t.Errorf("shares = %v, %v; want 30.5, 49.5", resolved.Shares[0].Amount, resolved.Shares[1].Amount)
				}
			},
		},
		{
			name:   "unregistered participant is not an error",
			amount: 60,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Charlie", Percentage: fptr(50)},
			},
			validateFunc: func(t *testing.T, resolved *ResolvedSplit) {
				ref := resolved.Shares[1].Participant
				if ref.Registered() || ref.DisplayName != "Charlie" {
					t.Errorf("participant = %v, want unregistered Charlie", ref)
				}
				if resolved.Shares[1].Settled {
					t.Error("unregistered non-payer share should be unsettled")
				}
			},
		},
		{
			name:   "unregistered payer settles the matching name share",
			amount: 60,
			payer:  "Charlie",
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Charlie", Percentage: fptr(50)},
			},
			validateFunc: func(t *testing.T, resolved *ResolvedSplit) {
				if resolved.Payer.Registered() {
					t.Errorf("payer = %v, want unregistered", resolved.Payer)
				}
				if resolved.Shares[0].Settled {
					t.Error("requester's share should be unsettled")
				}
				if !resolved.Shares[1].Settled {
					t.Error("payer's share should be settled")
				}
			},
		},
		{
			name:   "percentages totalling 99 fail",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice", Percentage: fptr(49)},
			},
			wantErr: true,
		},
		{
			name:   "percentages totalling 101 fail",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice", Percentage: fptr(51)},
			},
			wantErr: true,
		},
		{
			name:   "amounts not totalling the expense fail",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, ShareAmount: fptr(40)},
				{Participant: "Alice", ShareAmount: fptr(40)},
			},
			wantErr: true,
		},
		{
			name:    "zero amount fails",
			amount:  0,
			payer:   You,
			splits:  []RawSplit{{Participant: You, Percentage: fptr(100)}},
			wantErr: true,
		},
		{
			name:    "empty splits fail",
			amount:  100,
			payer:   You,
			splits:  nil,
			wantErr: true,
		},
		{
			name:   "entry with neither field fails",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice"},
			},
			wantErr: true,
		},
		{
			name:   "mixed modes fail when an entry misses the active field",
			amount: 100,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice", ShareAmount: fptr(50)},
			},
			wantErr: true,
		},
		{
			name:   "direct expense with three participants fails",
			amount: 90,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(40)},
				{Participant: "Alice", Percentage: fptr(30)},
				{Participant: "Bob", Percentage: fptr(30)},
			},
			wantErr: true,
		},
		{
			name:   "direct expense without You fails",
			amount: 90,
			payer:  "Alice",
			splits: []RawSplit{
				{Participant: "Alice", Percentage: fptr(50)},
				{Participant: "Bob", Percentage: fptr(50)},
			},
			wantErr: true,
		},
		{
			name:   "group expense allows more than two members",
			amount: 90,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(40)},
				{Participant: "Alice", Percentage: fptr(30)},
				{Participant: "Bob", Percentage: fptr(30)},
			},
			group: &GroupContext{Members: []string{requesterID, aliceID, bobID}},
			validateFunc: func(t *testing.T, resolved *ResolvedSplit) {
				if len(resolved.Shares) != 3 {
					t.Fatalf("got %d shares, want 3", len(resolved.Shares))
				}
				if math.Abs(resolved.Shares[0].Amount-36) > 0.01 {
					t.Errorf("requester share = %v, want 36", resolved.Shares[0].Amount)
				}
			},
		},
		{
			name:   "group expense rejects non-member participant",
			amount: 90,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Bob", Percentage: fptr(50)},
			},
			group:   &GroupContext{Members: []string{requesterID, aliceID}},
			wantErr: true,
		},
		{
			name:   "group expense rejects unregistered participant",
			amount: 90,
			payer:  You,
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Charlie", Percentage: fptr(50)},
			},
			group:   &GroupContext{Members: []string{requesterID, aliceID}},
			wantErr: true,
		},
		{
			name:   "group expense rejects non-member payer",
			amount: 90,
			payer:  "Bob",
			splits: []RawSplit{
				{Participant: You, Percentage: fptr(50)},
				{Participant: "Alice", Percentage: fptr(50)},
			},
			group:   &GroupContext{Members: []string{requesterID, aliceID}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(directory)
			resolved, err := resolver.Resolve(context.Background(), tt.amount, tt.payer, tt.splits, requesterID, tt.group)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected *ValidationError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, resolved)
			}
		})
	}
}

// Shares should reproduce the expense amount within per-share rounding drift
// regardless of mode and participant count.
func TestSplitResolver_ShareTotalsReconcile(t *testing.T) {
	for count := 2; count <= 20; count++ {
		amount := 123.45
		pct := 100.0 / float64(count)
		splits := make([]RawSplit, count)
		members := make([]string, count)
		for i := range splits {
			id := KnownParticipant(memberID(i)).UserID
			splits[i] = RawSplit{Participant: id, Percentage: fptr(pct)}
			members[i] = id
		}

		resolver := newTestResolver(nil)
		resolved, err := resolver.Resolve(context.Background(), amount, members[0], splits, requesterID, &GroupContext{Members: members})
		if err != nil {
			t.Fatalf("count=%d: Resolve failed: %v", count, err)
		}

		sum := 0.0
		for _, share := range resolved.Shares {
			sum += share.Amount
		}
		if math.Abs(sum-amount) > 0.01*float64(count) {
			t.Errorf("count=%d: shares total %v, want %v within drift", count, sum, amount)
		}
	}
}

// memberID builds a deterministic syntactically valid UUID for index i.
func memberID(i int) string {
	hex := "0123456789abcdef"
	c := hex[i%16]
	return "00000000-0000-4000-8000-0000000000" + string(c) + string(hex[(i/16)%16])
}
