package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"employee": {
		"exam:view",
		"attempt:begin",
		"attempt:take",
		"attempt:view-own",
	},
	"manager": {
		"exam:view",
		"attempt:begin",
		"attempt:take",
		"attempt:view-own",
		"attempt:view-scoped",
		"attempt:review",
	},
	"admin": {
		"*", // everything
	},
}
