package models

import "time"

// EventStatus is the lifecycle axis of an event record.
type EventStatus string

const (
	StatusPending   EventStatus = "pending"
	StatusUpcoming  EventStatus = "upcoming"
	StatusLive      EventStatus = "live"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
	StatusRejected  EventStatus = "rejected"
)

// ApprovalStatus is the admin gate controlling whether players can see and join an event.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// MatchType distinguishes a single match from a tournament.
type MatchType string

const (
	MatchTypeMatch      MatchType = "match"
	MatchTypeTournament MatchType = "tournament"
)

type Game string

const (
	GameFreeFire Game = "freefire"
	GamePUBG     Game = "pubg"
	GameCOD      Game = "cod"
	GameLudo     Game = "ludo"
	GameBGMI     Game = "bgmi"
)

// GameCatalog lists the games an event may be created for.
var GameCatalog = []Game{GameFreeFire, GamePUBG, GameCOD, GameLudo, GameBGMI}

func IsKnownGame(g Game) bool {
	for _, known := range GameCatalog {
		if g == known {
			return true
		}
	}
	return false
}

func IsValidStatus(s EventStatus) bool {
	switch s {
	case StatusPending, StatusUpcoming, StatusLive, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

func IsValidApproval(a ApprovalStatus) bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

func IsValidMatchType(t MatchType) bool {
	return t == MatchTypeMatch || t == MatchTypeTournament
}

// Event is the admin-facing view of a tournament or match.
// SpotsLeft is derived on every read and is never sent to the backend.
type Event struct {
	ID                  string         `json:"id,omitempty"`
	Title               string         `json:"title"`
	Game                Game           `json:"game"`
	Type                string         `json:"type"`
	Map                 string         `json:"map"`
	Description         string         `json:"description"`
	Rules               string         `json:"rules"`
	EntryFee            int            `json:"entryFee"`
	PrizePool           int            `json:"prizePool"`
	PerKill             int            `json:"perKill"`
	MaxPlayers          int            `json:"maxPlayers"`
	CurrentParticipants int            `json:"currentParticipants"`
	SpotsLeft           int            `json:"spotsLeft"`
	RoomID              string         `json:"roomId"`
	Password            string         `json:"password"`
	ScheduleTime        time.Time      `json:"scheduleTime"`
	EndTime             time.Time      `json:"endTime"`
	Status              EventStatus    `json:"status"`
	ApprovalStatus      ApprovalStatus `json:"approvalStatus"`
	MatchType           MatchType      `json:"matchType"`
	CreatedBy           string         `json:"createdBy,omitempty"`
	BannerURL           string         `json:"bannerUrl,omitempty"`

	// Extra keeps backend keys the mapper does not know about.
	Extra map[string]any `json:"-"`
}

// EventForm is the create form as typed by an admin. Numbers arrive as text
// and are coerced by the mapper.
type EventForm struct {
	Title        string
	Game         string
	Type         string
	Map          string
	Description  string
	Rules        string
	EntryFee     string
	PrizePool    string
	PerKill      string
	MaxPlayers   string
	RoomID       string
	Password     string
	ScheduleTime string
	EndTime      string
	BannerURL    string
	MatchType    MatchType
	CreatedBy    string
}

// EventPatch holds the editable subset of an event. Nil fields are left untouched.
type EventPatch struct {
	Title        *string
	Game         *Game
	Type         *string
	Map          *string
	Description  *string
	Rules        *string
	EntryFee     *int
	PrizePool    *int
	PerKill      *int
	MaxPlayers   *int
	RoomID       *string
	Password     *string
	ScheduleTime *time.Time
	EndTime      *time.Time
	BannerURL    *string
}

// BackendRecord is an event as exchanged with the REST backend (snake_case keys).
type BackendRecord map[string]any

// EventRow is the persisted form of an event in the reference backend.
type EventRow struct {
	ID                  string         `json:"id" db:"id"`
	Title               string         `json:"title" db:"title"`
	Game                Game           `json:"game" db:"game"`
	Type                string         `json:"type" db:"type"`
	Map                 string         `json:"map" db:"map"`
	Description         string         `json:"description" db:"description"`
	Rules               string         `json:"rules" db:"rules"`
	EntryFee            int            `json:"entry_fee" db:"entry_fee"`
	TotalPrize          int            `json:"total_prize" db:"total_prize"`
	PerKill             int            `json:"perKill" db:"per_kill"`
	MaxParticipants     int            `json:"max_participants" db:"max_participants"`
	CurrentParticipants int            `json:"current_participants" db:"current_participants"`
	RoomCode            string         `json:"room_code" db:"room_code"`
	RoomPassword        string         `json:"room_password" db:"room_password"`
	StartTime           time.Time      `json:"start_time" db:"start_time"`
	EndTime             time.Time      `json:"end_time" db:"end_time"`
	Status              EventStatus    `json:"status" db:"status"`
	ApprovalStatus      ApprovalStatus `json:"approval_status" db:"approval_status"`
	MatchType           MatchType      `json:"match_type" db:"match_type"`
	CreatedBy           string         `json:"created_by" db:"created_by"`
	BannerKey           *string        `json:"-" db:"banner_key"`
	BannerURL           string         `json:"banner_url,omitempty" db:"-"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}
