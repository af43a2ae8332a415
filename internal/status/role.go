package status

import (
	"slices"

	"github.com/devpureza/liga-expo/internal/model"
)

// Role returns the display role for a set of groups.
func Role(groups []string) string {
	for _, g := range model.RoleHierarchy {
		if slices.Contains(groups, g) {
			return model.RoleDisplayNames[g]
		}
	}
	if len(groups) > 0 && groups[0] != "" {
		return groups[0]
	}
	return model.DefaultRole
}

// HasRole reports whether the user belongs to group.
func HasRole(u model.User, group string) bool {
	return slices.Contains(u.Groups, group)
}

// IsAdmin reports whether the user is an administrator.
func IsAdmin(u model.User) bool {
	return HasRole(u, model.GroupAdmin)
}

// CanUsePOS reports whether the user may open the point of sale.
func CanUsePOS(u model.User) bool {
	return HasRole(u, model.GroupPOS) || HasRole(u, model.GroupAdmin) || HasRole(u, model.GroupProducer)
}
