package user

type UpdateProfileRequest struct {
	Name            *string  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Phone           *string  `json:"phone,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	Avatar          *string  `json:"avatar,omitempty"`
}

func (r UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.Bio == nil &&
		r.Specializations == nil && r.Avatar == nil
}
