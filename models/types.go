package models

import "time"

// Shared container keys. Every participant of a session attaches to the
// container registered under the same key.
const (
	PollKey     = "LIVE-POLL"
	CalendarKey = "LIVE-CALENDAR"
	CanvasKey   = "LIVE-CANVAS"
)

// Custom notification events emitted after a successful write
const (
	EventNewPollCreated = "newPollCreated"
	EventPollVoted      = "pollVoted"
	EventPollClosed     = "pollClosed"
	EventPollDeleted    = "pollDeleted"
	EventEventCreated   = "eventCreated"
	EventEventDeleted   = "eventDeleted"
	EventStrokeAdded    = "strokeAdded"
	EventCanvasCleared  = "canvasCleared"
)

// Calendar view modes
const (
	ViewAll      = "all"
	ViewUpcoming = "upcoming"
)

// Inking tools
const (
	ToolPen          = "pen"
	ToolLaserPointer = "laser"
	ToolHighlighter  = "highlighter"
	ToolEraser       = "eraser"
)

// Domain types

type PollOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// participant id -> selected option ids
type VoteMap map[string][]string

type Poll struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Options       []PollOption `json:"options"`
	AllowMultiple bool         `json:"allowMultiple"`
	Votes         VoteMap      `json:"votes"`
	CreatedBy     string       `json:"createdBy"`
	CreatedAt     int64        `json:"createdAt"` // unix millis
	IsOpen        bool         `json:"isOpen"`
}

func (p Poll) EntityID() string { return p.ID }

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   int64     `json:"createdAt"` // unix millis
	Color       string    `json:"color,omitempty"`
	Recurrence  string    `json:"recurrence,omitempty"` // RRULE
}

func (e Event) EntityID() string { return e.ID }

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke struct {
	ID        string  `json:"id"`
	Tool      string  `json:"tool"`
	Color     string  `json:"color,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Points    []Point `json:"points"`
	CreatedBy string  `json:"createdBy"`
	CreatedAt int64   `json:"createdAt"` // unix millis
}

func (s Stroke) EntityID() string { return s.ID }

type Occurrence struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	JoinCode  string    `json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
}

type Participant struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Theme      string    `json:"theme"`
	JoinedAt   time.Time `json:"joined_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Result types

type OptionTally struct {
	OptionID   string `json:"option_id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type PollResults struct {
	PollID      string        `json:"poll_id"`
	Question    string        `json:"question"`
	IsOpen      bool          `json:"isOpen"`
	TotalVoters int           `json:"total_voters"`
	Options     []OptionTally `json:"options"`
}

type PollWithResults struct {
	Poll    Poll        `json:"poll"`
	Results PollResults `json:"results"`
	MyVote  []string    `json:"my_vote"`
}

// Request types

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type JoinSessionRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Theme  string `json:"theme"`
}

type SetThemeRequest struct {
	Theme string `json:"theme"`
}

type CreatePollRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	AllowMultiple bool     `json:"allowMultiple"`
}

type VoteRequest struct {
	OptionIDs []string `json:"option_ids"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Color       string    `json:"color"`
	Recurrence  string    `json:"recurrence"`
}

type AddStrokeRequest struct {
	Tool   string  `json:"tool"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// One of: pointer_down, pointer_move, pointer_up, wheel, zoom_in,
// zoom_out, reset, pan, tool
type ViewportRequest struct {
	Action    string  `json:"action"`
	Button    int     `json:"button"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	DeltaY    float64 `json:"delta_y"`
	Ctrl      bool    `json:"ctrl"`
	Direction string  `json:"direction"`
	Amount    float64 `json:"amount"`
	Tool      string  `json:"tool"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	JoinCode  string `json:"join_code"`
}

type JoinSessionResponse struct {
	SessionID        string `json:"session_id"`
	UserID           string `json:"user_id"`
	ParticipantToken string `json:"participant_token"`
	Theme            string `json:"theme"`
}

type ViewportResponse struct {
	Tool    string  `json:"tool"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Panning bool    `json:"panning"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
