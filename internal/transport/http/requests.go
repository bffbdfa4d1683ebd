package http

type swipeRequest struct {
	TargetID  int64  `json:"target_id" validate:"required,gt=0"`
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	HackathonID int64  `json:"hackathon_id" validate:"required,gt=0"`
	MaxSize     int    `json:"max_size" validate:"required,min=1,max=10"`
}

type resolveInviteRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept decline"`
}

type resolveJoinRequestRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

type kickRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open closed"`
}

type preferencesRequest struct {
	MinMMR       *int     `json:"min_mmr" validate:"omitempty,gte=0"`
	MaxMMR       *int     `json:"max_mmr" validate:"omitempty,gte=0"`
	Skills       []string `json:"skills" validate:"omitempty,dive,skill_name,min=1,max=100"`
	Experience   []string `json:"experience" validate:"omitempty,dive,min=1,max=50"`
	Roles        []string `json:"roles" validate:"omitempty,dive,min=1,max=50"`
	VerifiedOnly bool     `json:"verified_only"`
}

type calibrateRequest struct {
	Answers []calibrateAnswer `json:"answers" validate:"required,min=1,dive"`
}

type calibrateAnswer struct {
	Weight float64 `json:"weight" validate:"gte=0"`
	Value  float64 `json:"value" validate:"gte=0"`
}

type verifySkillRequest struct {
	SkillName    string          `json:"skill_name" validate:"required,skill_name,min=1,max=100"`
	TestScore    int             `json:"test_score" validate:"gte=0,lte=100"`
	Thresholds   skillThresholds `json:"thresholds" validate:"required"`
	PassingScore *int            `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
}

type skillThresholds struct {
	Intermediate int `json:"intermediate" validate:"gte=0,lte=100"`
	Advanced     int `json:"advanced" validate:"gte=0,lte=100"`
	Expert       int `json:"expert" validate:"gte=0,lte=100"`
}
