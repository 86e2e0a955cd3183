package users

type UpdateUserRequest struct {
	ID          string `json:"id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Firstname   string `json:"firstname" validate:"required,max=100"`
	Lastname    string `json:"lastname" validate:"required,max=100"`
	Password    string `json:"password" validate:"omitempty,min=8,max=72"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}
