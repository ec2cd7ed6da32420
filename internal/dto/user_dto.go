package dto

type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Username      *string `json:"username"`
	ProfilePicURL *string `json:"profile_pic_url"`
	Password      *string `json:"password"`
}
