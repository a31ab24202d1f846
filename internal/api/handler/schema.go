package handler

// ── Requests ──────────────────────────────────────────────────────────────────

type loginRequest struct {
	UserName string `json:"userName" validate:"required" example:"galkadi"`
	Password string `json:"password" validate:"required" example:"Password123!"`
}

// stationRequest is the body of create and full-replacement update.
type stationRequest struct {
	Name      string `json:"name" example:"Hammond Central"`
	Address   string `json:"address" example:"100 Railroad Ave"`
	ManagerID *int64 `json:"managerId,omitempty" example:"2"`
}

type createUserRequest struct {
	UserName string   `json:"userName" validate:"required,max=256" example:"carol"`
	Password string   `json:"password" validate:"required" example:"Password123!"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,required" example:"User"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// userResponse is the public projection of an account.
type userResponse struct {
	ID       int64    `json:"id" example:"1"`
	UserName string   `json:"userName" example:"galkadi"`
	Roles    []string `json:"roles" example:"Admin"`
}

type stationResponse struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"Hammond Central"`
	Address   string `json:"address" example:"100 Railroad Ave"`
	ManagerID *int64 `json:"managerId,omitempty" example:"2"`
}

type errorBody struct {
	Error string `json:"error" example:"access forbidden"`
}
