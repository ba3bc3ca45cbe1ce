package policy

// Role names issued by the credential store.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// APIRules is the built-in table for the stateless /api surface.
func APIRules() *Table {
	member := RequireAnyRole(RoleUser, RoleAdmin)

	return MustTable("api",
		Rule{Method: "POST", Pattern: "/api/auth/login", Requirement: PermitAll()},
		Rule{Method: "POST", Pattern: "/api/auth/register", Requirement: PermitAll()},
		Rule{Method: "POST", Pattern: "/api/auth/refresh", Requirement: member},
		Rule{Method: "POST", Pattern: "/api/auth/logout", Requirement: member},

		Rule{Method: "GET", Pattern: "/api/artists/**", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/api/pictures/**", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/api/comments/**", Requirement: PermitAll()},

		Rule{Method: "POST|PUT|PATCH", Pattern: "/api/artists/**", Requirement: RequireRole(RoleUser)},
		Rule{Method: "POST|PUT|PATCH", Pattern: "/api/pictures/**", Requirement: RequireRole(RoleUser)},
		Rule{Method: "POST|PUT|PATCH", Pattern: "/api/comments/**", Requirement: RequireRole(RoleUser)},

		Rule{Method: "DELETE", Pattern: "/api/**", Requirement: RequireRole(RoleAdmin)},
	)
}

// WebRules is the built-in table for the browser surface backed by server
// sessions.
func WebRules() *Table {
	member := RequireAnyRole(RoleUser, RoleAdmin)

	return MustTable("web",
		Rule{Method: "GET|POST", Pattern: "/login", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/login-error", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/static/**", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/artists/**", Requirement: PermitAll()},
		Rule{Method: "GET", Pattern: "/pictures/**", Requirement: PermitAll()},

		Rule{Method: "POST", Pattern: "/logout", Requirement: member},
		Rule{Method: "*", Pattern: "/admin/**", Requirement: RequireRole(RoleAdmin)},

		Rule{Method: "POST|PUT|PATCH|DELETE", Pattern: "/artists/**", Requirement: member},
		Rule{Method: "POST|PUT|PATCH|DELETE", Pattern: "/pictures/**", Requirement: member},
		Rule{Method: "*", Pattern: "/comments/**", Requirement: member},
	)
}
