package domain

// Link is a shortened URL owned by a session.
type Link struct {
	ID        int64  `json:"id"`
	Token     string `json:"token"`
	URL       string `json:"url"`
	Session   string `json:"-"`
	CreatedAt int64  `json:"created_at"`
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Allocation is the outcome of a successful token allocation. Token is
// what was actually stored; Requested is what the caller asked for (or
// the generated candidate when the caller asked for nothing), kept so
// responses can show how the two relate.
type Allocation struct {
	Token     string
	Requested string
	URL       string
	CreatedAt int64
}
