package server

import (
	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/service"
)

// JSON shapes for the API. Unix timestamps stay numeric; optional fields are
// omitted when empty.

type userJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

type expenseJSON struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        int64   `json:"date"`
	PaidBy      string  `json:"paidBy,omitempty"`
	PayerName   string  `json:"payerName,omitempty"`
	GroupID     string  `json:"groupId,omitempty"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

func toExpenseJSON(e *models.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		PaidBy:      e.PayerUserID,
		PayerName:   e.PayerName,
		GroupID:     e.GroupID,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type shareJSON struct {
	ID              string  `json:"id"`
	ExpenseID       string  `json:"expenseId"`
	UserID          string  `json:"userId,omitempty"`
	ParticipantName string  `json:"participantName,omitempty"`
	ShareAmount     float64 `json:"shareAmount"`
	IsSettled       bool    `json:"isSettled"`
}

func toShareJSON(s *models.Share) shareJSON {
	return shareJSON{
		ID:              s.ID,
		ExpenseID:       s.ExpenseID,
		UserID:          s.UserID,
		ParticipantName: s.ParticipantName,
		ShareAmount:     s.Amount,
		IsSettled:       s.Settled,
	}
}

func toShareJSONs(shares []*models.Share) []shareJSON {
	out := make([]shareJSON, len(shares))
	for i, s := range shares {
		out[i] = toShareJSON(s)
	}
	return out
}

type groupJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CreatedBy   string   `json:"createdBy"`
	Members     []string `json:"members"`
	MemberCount int      `json:"memberCount"`
	CreatedAt   int64    `json:"createdAt"`
}

func toGroupJSON(g *models.Group) groupJSON {
	return groupJSON{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		Members:     g.Members,
		MemberCount: len(g.Members),
		CreatedAt:   g.CreatedAt,
	}
}

type friendJSON struct {
	FriendshipID string   `json:"friendshipId"`
	Status       string   `json:"status"`
	User         userJSON `json:"user"`
}

func toFriendJSON(entry service.FriendEntry) friendJSON {
	return friendJSON{
		FriendshipID: entry.Friendship.ID,
		Status:       entry.Friendship.Status,
		User:         toUserJSON(entry.Friend),
	}
}

type activityJSON struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	User        string  `json:"user"`
	Timestamp   int64   `json:"timestamp"`
	Status      string  `json:"status"`
}

func toActivityJSON(item models.ActivityItem) activityJSON {
	return activityJSON(item)
}

type balanceJSON struct {
	TotalOwed      float64 `json:"totalOwed"`
	TotalOwedToYou float64 `json:"totalOwedToYou"`
	NetBalance     float64 `json:"netBalance"`
}
