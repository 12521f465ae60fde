package request

type RegisterRequest struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Password string `form:"password" validate:"required,min=3,max=72"`
	Role     string `form:"role" validate:"required,oneof=admin user"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
