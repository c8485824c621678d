package models

// Role — роль пользователя в системе.
//
// Закрытое перечисление из двух вариантов: владелец (owner) и соисполнитель
// (collaborator). Валидация выполняется один раз на границе
// (регистрация/назначение роли), дальше по коду роль считается корректной.
type Role string

const (
	// RoleOwner — владелец: полный доступ к управлению ролями и дашбордам.
	RoleOwner Role = "owner"
	// RoleCollaborator — соисполнитель: роль по умолчанию при регистрации.
	RoleCollaborator Role = "collaborator"
)

// ParseRole разбирает строковое представление роли.
// Возвращает false для любого значения вне перечисления.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner:
		return RoleOwner, true
	case RoleCollaborator:
		return RoleCollaborator, true
	default:
		return "", false
	}
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}
