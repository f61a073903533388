package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"article:view",
		"test:submit",
		"video:mark",
		"progress:view-own",
		"certificate:issue",
		"certificate:view-own",
	},
	"admin": {
		"*", // everything
	},
}
