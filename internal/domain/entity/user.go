package entity

// Roles válidos.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Principal identidad autenticada que actúa sobre el núcleo.
// Solo se usa para autorización; la lógica de inventario no depende de ella.
type Principal struct {
	UserID          string
	Roles           []string
	StoragePointIDs []string
	Language        string
}

// HasRole indica si el principal tiene alguno de los roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// CanActOn indica si el principal tiene autoridad sobre el punto de almacenamiento.
// Los roles elevados tienen autoridad sobre todos.
func (p Principal) CanActOn(storagePointID string, elevatedRoles ...string) bool {
	if p.HasRole(elevatedRoles...) {
		return true
	}
	for _, id := range p.StoragePointIDs {
		if id == storagePointID {
			return true
		}
	}
	return false
}
