package request

// LoginRequest is the request body for administrator login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddContestantRequest is the request body for registering a contestant.
// An empty category selects the default one.
type AddContestantRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}
