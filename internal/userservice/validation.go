package userservice

import "github.com/sushihentaime/bloglist/internal/common"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var registerMessages = map[string]string{
	"username.min": "Username must be at least 3 characthers",
	"password.min": "Password must be at least 3 characthers",
}

func validateRegisterUser(v *common.Validator, req *RegisterUserRequest) {
	v.CheckStruct(req, registerMessages)
	v.Check(len(req.Password) <= maxPasswordBytes, "password", "Password must be at most 72 bytes")
}
