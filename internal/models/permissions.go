package models

// Permission constants
const (
	PermissionEscrowCreate = "escrow:create"
	PermissionEscrowRead   = "escrow:read"
	PermissionEscrowSettle = "escrow:settle"

	PermissionDisputeFile = "dispute:file"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionEscrowCreate,
			PermissionEscrowRead,
			PermissionEscrowSettle,
			PermissionDisputeFile,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case RoleVendor:
		return []string{
			PermissionEscrowRead,
			PermissionEscrowSettle,
			PermissionDisputeFile,
		}
	case RoleStudent:
		return []string{
			PermissionEscrowCreate,
			PermissionEscrowRead,
			PermissionEscrowSettle,
			PermissionDisputeFile,
		}
	default:
		return []string{}
	}
}
