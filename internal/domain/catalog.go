package domain

import "time"

// Catalog record types. Each collection lives as a JSON array under a
// dedicated store key; readers treat a missing or malformed key as empty.

// Movie is a catalog movie entry.
type Movie struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Description string `json:"description,omitempty"`
	Poster      string `json:"poster,omitempty"`
	Src         string `json:"src,omitempty"`
}

// Artist is a catalog artist entry.
type Artist struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Genre       string   `json:"genre,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	TrackIDs    []string `json:"tracks,omitempty"`
}

// User is a catalog account record. Passwords are base64-obfuscated, not
// hashed; this mirrors the stored format and is a documented non-goal.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment is a simulated checkout record.
type Payment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PlanID    string    `json:"planId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Plan is a subscription plan offered at checkout.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Interval string   `json:"interval,omitempty"`
	Features []string `json:"features,omitempty"`
}

// LogEntry is a developer-console log record.
type LogEntry struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a user-facing notice.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Genre is a named genre with a display color.
type Genre struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Trending groups the front-page highlight ids.
type Trending struct {
	Movies []string `json:"movies"`
	Music  []string `json:"music"`
}

// Favorites holds the user's favorited media ids, split by kind.
type Favorites struct {
	Songs  []string `json:"songs"`
	Movies []string `json:"movies"`
}
