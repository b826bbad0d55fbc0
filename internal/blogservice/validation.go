package blogservice

import "github.com/sushihentaime/bloglist/internal/common"

func validateCreateBlog(v *common.Validator, req *CreateBlogRequest) {
	v.CheckStruct(req, nil)
}

func validateUpdateBlog(v *common.Validator, req *UpdateBlogRequest) {
	v.CheckStruct(req, nil)
}

// likesOrZero returns 0 for absent likes.
func likesOrZero(likes *int) int {
	if likes == nil {
		return 0
	}
	return *likes
}
