package user

type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var (
	MockAdmin = User{
		ID:     "u1",
		Name:   "Store Admin",
		Email:  "admin@store.com",
		Role:   RoleAdmin,
		Avatar: "https://picsum.photos/100/100?random=100",
	}
	MockCustomer = User{
		ID:     "u2",
		Name:   "Mohammed Khaled",
		Email:  "customer@mail.com",
		Role:   RoleCustomer,
		Avatar: "https://picsum.photos/100/100?random=101",
	}
)
