package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Name      string `json:"name"      validate:"required,max=100"`
	Surnames  string `json:"surnames"  validate:"max=150"`
	Email     string `json:"email"     validate:"required,email"`
	Telephone string `json:"telephone" validate:"required,numeric,min=6,max=20"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	Role      string `json:"role"      validate:"omitempty,oneof=ADMIN STAFF CUSTOMER"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// updateProfileRequest is a partial user; omitted fields are left unchanged.
type updateProfileRequest struct {
	Name            *string `json:"name"            validate:"omitempty,max=100"`
	Surnames        *string `json:"surnames"        validate:"omitempty,max=150"`
	Email           *string `json:"email"           validate:"omitempty,email"`
	Telephone       *string `json:"telephone"       validate:"omitempty,numeric,min=6,max=20"`
	CurrentPassword string  `json:"currentPassword" validate:"required"`
}
