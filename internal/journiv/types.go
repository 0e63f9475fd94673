package journiv

import "time"

// Entry is a journal entry as returned by Journiv. Dates are kept as the
// remote "YYYY-MM-DD" / ISO strings.
type Entry struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	EntryDate string  `json:"entry_date"`
	Location  *string `json:"location"`
	Weather   *string `json:"weather"`
	JournalID *string `json:"journal_id"`
	PromptID  *string `json:"prompt_id"`
	WordCount int     `json:"word_count"`
	IsPinned  bool    `json:"is_pinned"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type Mood struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MoodLog struct {
	ID         string    `json:"id"`
	MoodID     string    `json:"mood_id"`
	Note       *string   `json:"note"`
	EntryID    *string   `json:"entry_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	LoggedDate string    `json:"logged_date"`
	Mood       Mood      `json:"mood"`
	EntryDate  *string   `json:"entry_date"`
}

type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UserID     string    `json:"user_id"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryTag is the join record created when a tag is attached to an entry.
type EntryTag struct {
	EntryID   string    `json:"entry_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}
