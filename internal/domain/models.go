// package domain holds the persistence-facing entities of the matching engine.
package domain

import "time"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

type Skill struct {
	Name     string     `db:"name"`
	Level    SkillLevel `db:"level"`
	Verified bool       `db:"verified"`
}

type Participant struct {
	ID                 int64    `db:"id"`
	Username           string   `db:"username"`
	Name               string   `db:"name"`
	Bio                string   `db:"bio"`
	Experience         string   `db:"experience"`
	LookingFor         []string `db:"-"`
	PTS                int      `db:"pts"`
	MMR                int      `db:"mmr"`
	CurrentTeamID      *int64   `db:"current_team_id"`
	CurrentHackathonID *int64   `db:"current_hackathon_id"`
	Skills             []Skill  `db:"-"`
	CreatedAt          time.Time `db:"created_at"`
}

type TeamStatus string

const (
	TeamOpen   TeamStatus = "open"
	TeamClosed TeamStatus = "closed"
	TeamFull   TeamStatus = "full"
)

type Team struct {
	ID          int64      `db:"id"`
	HackathonID int64      `db:"hackathon_id"`
	Name        string     `db:"name"`
	CaptainID   int64      `db:"captain_id"`
	MaxSize     int        `db:"max_size"`
	Status      TeamStatus `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
}

type TeamWithMembers struct {
	Team
	Members []Participant
}

type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

type SwipeRecord struct {
	ID        int64          `db:"id"`
	SwiperID  int64          `db:"swiper_id"`
	TargetID  int64          `db:"target_id"`
	Direction SwipeDirection `db:"direction"`
	CreatedAt time.Time      `db:"created_at"`
}

type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteDeclined  InviteStatus = "declined"
	InviteExpired   InviteStatus = "expired"
	InviteCancelled InviteStatus = "cancelled"
)

type Invite struct {
	ID         int64        `db:"id"`
	TeamID     int64        `db:"team_id"`
	FromUserID int64        `db:"from_user_id"`
	ToUserID   int64        `db:"to_user_id"`
	Status     InviteStatus `db:"status"`
	Message    *string      `db:"message"`
	CreatedAt  time.Time    `db:"created_at"`
	ExpiresAt  time.Time    `db:"expires_at"`
}

// InviteWithContext is the candidate-facing invite view: the invite itself plus
// the team it came from and the captain who sent it.
type InviteWithContext struct {
	Invite
	Team     Team
	FromUser Participant
}

type JoinRequestStatus string

const (
	RequestPending   JoinRequestStatus = "pending"
	RequestAccepted  JoinRequestStatus = "accepted"
	RequestRejected  JoinRequestStatus = "rejected"
	RequestCancelled JoinRequestStatus = "cancelled"
)

type JoinRequest struct {
	ID        int64             `db:"id"`
	TeamID    int64             `db:"team_id"`
	UserID    int64             `db:"user_id"`
	Status    JoinRequestStatus `db:"status"`
	CreatedAt time.Time         `db:"created_at"`
}

type JoinRequestWithUser struct {
	JoinRequest
	User Participant
}

// DeckPreferences are a swiper's persisted candidate filters. Nil/empty fields
// mean "no constraint"; set fields are AND-combined.
type DeckPreferences struct {
	MinMMR       *int
	MaxMMR       *int
	Skills       []string
	Experience   []string
	Roles        []string
	VerifiedOnly bool
}

// CalibrationAnswer is one answered quiz question: the option the participant
// picked (value) scaled by the question's weight.
type CalibrationAnswer struct {
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// SkillThresholds map a 0-100 test score onto a skill level. Anything below
// Intermediate (but at or above the passing score) stays beginner.
type SkillThresholds struct {
	Intermediate int `json:"intermediate"`
	Advanced     int `json:"advanced"`
	Expert       int `json:"expert"`
}

type MMRStats struct {
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Average float64 `json:"average"`
	Spread  int     `json:"spread"`
}

type BalanceSuggestion struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TeamBalanceReport is derived from the live roster on every request and is
// never persisted.
type TeamBalanceReport struct {
	Score         float64             `json:"score"`
	MMRStats      MMRStats            `json:"mmr_stats"`
	SkillCoverage map[string]int      `json:"skill_coverage"`
	Roles         map[string]int      `json:"roles"`
	Warnings      []string            `json:"warnings"`
	Suggestions   []BalanceSuggestion `json:"suggestions"`
}
