package auth

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Firstname   string `json:"firstname" validate:"required,max=100"`
	Lastname    string `json:"lastname" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SetNewPasswordRequest struct {
	Password string `json:"password"`
}

// LoginResult carries everything a successful authentication produces. The
// refresh token travels back to the client only inside an HTTP-only cookie.
type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}
