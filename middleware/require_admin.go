package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles xác thực token rồi chỉ cho qua nếu vai trò của user
// nằm trong danh sách cho phép. Dùng cho nhóm route /api/admin.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	authenticate := AuthMiddleware()

	return func(c *gin.Context) {
		authenticate(c)
		if c.IsAborted() {
			return
		}

		role := c.GetString("role")
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Không xác định được vai trò người dùng"})
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền truy cập tài nguyên này"})
			c.Abort()
			return
		}

		c.Next()
	}
}
