package models

// User - учетная запись пользователя. Таблица существует в схеме как задел
// под будущую аутентификацию, ни один маршрут ее пока не использует.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
