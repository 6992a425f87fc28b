package roles

// Коды разрешений, которые попадают в claim "authorities" access токена
const (
	PermBookCreate = "book:create"
	PermBookRead   = "book:read"
	PermBookDelete = "book:delete"
	PermUserRead   = "user:read"
	PermUserWrite  = "user:write"
	PermUserDelete = "user:delete"
)

// Role - роль пользователя из закрытого набора
type Role string

const (
	User  Role = "USER"
	Admin Role = "ADMIN"
)

// permissionsByRole - фиксированная таблица роль -> набор разрешений.
// Разрешения выводятся только из роли и никогда не хранятся на пользователе.
var permissionsByRole = map[Role][]string{
	User: {PermBookRead},
	Admin: {
		PermBookCreate,
		PermBookRead,
		PermBookDelete,
		PermUserRead,
		PermUserWrite,
		PermUserDelete,
	},
}

// Permissions возвращает копию набора разрешений роли.
// Для неизвестной роли возвращается пустой набор.
func Permissions(r Role) []string {
	perms, ok := permissionsByRole[r]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Valid сообщает, входит ли роль в закрытый набор
func Valid(r Role) bool {
	_, ok := permissionsByRole[r]
	return ok
}

// HasPermission проверяет наличие требуемого разрешения в наборе вызывающего
func HasPermission(authorities []string, required string) bool {
	for _, a := range authorities {
		if a == required {
			return true
		}
	}
	return false
}
