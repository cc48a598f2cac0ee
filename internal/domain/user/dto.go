package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              int64   `json:"id"`
	FullName        string  `json:"nomcomplet"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	Matricule       *string `json:"matricule,omitempty"`
	DepartmentID    *int64  `json:"departement_id,omitempty"`
	DepartmentName  *string `json:"departement_nom,omitempty"`
	SousDirectionID *int64  `json:"sous_direction_id,omitempty"`
	DirectionID     *int64  `json:"direction_id,omitempty"`
	DirectionName   *string `json:"direction_nom,omitempty"`
	FunctionName    *string `json:"fonction_nom,omitempty"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Role:            string(u.Role),
		Matricule:       u.Matricule,
		DepartmentID:    u.DepartmentID,
		DepartmentName:  u.DepartmentName,
		SousDirectionID: u.SousDirectionID,
		DirectionID:     u.DirectionID,
		DirectionName:   u.DirectionName,
		FunctionName:    u.FunctionName,
	}
}
