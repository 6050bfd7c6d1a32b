package response

import (
	"time"

	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
)

// LoginResponse is the response for administrator login
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginFromSession creates a LoginResponse from a session
func LoginFromSession(s *auth.Session) LoginResponse {
	return LoginResponse{
		SessionToken: s.Token,
		Username:     s.Username,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Contestant represents a contestant in API responses
type Contestant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ContestantFromModel converts a model.Contestant
func ContestantFromModel(c model.Contestant) Contestant {
	return Contestant{
		ID:        int(c.ID),
		Name:      c.Name,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
	}
}

// ContestantList wraps a roster listing
type ContestantList struct {
	Contestants []Contestant `json:"contestants"`
}

// ContestantListFromModel converts a roster listing, keeping order
func ContestantListFromModel(cs []model.Contestant) ContestantList {
	list := ContestantList{Contestants: make([]Contestant, 0, len(cs))}
	for _, c := range cs {
		list.Contestants = append(list.Contestants, ContestantFromModel(c))
	}
	return list
}

// Counts is the dashboard headcount
type Counts struct {
	Total int `json:"total"`
	Mr    int `json:"mr"`
	Ms    int `json:"ms"`
}

// CountsFromModel converts model.Counts
func CountsFromModel(c model.Counts) Counts {
	return Counts{Total: c.Total, Mr: c.Mr, Ms: c.Ms}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
