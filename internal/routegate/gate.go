// Package routegate реализует политику маршрутизации запросов к страницам:
// по признаку аутентификации, роли и пути решается, пропустить запрос или
// перенаправить. Правила проверяются в фиксированном порядке, побеждает
// первое совпавшее. При сбое провайдера идентификации политика закрывается:
// запрос перенаправляется на страницу ошибки.
package routegate

import "strings"

// Пути, участвующие в правилах перенаправления.
const (
	SignInPath         = "/sign-in"
	UserDashboardPath  = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"
	ErrorPath          = "/error"

	adminPrefix = "/admin"
)

// publicRoutes страницы, доступные без аутентификации.
var publicRoutes = map[string]struct{}{
	"/":                     {},
	"/sign-up":              {},
	"/sign-in":              {},
	"/api/webhook/register": {},
}

// Decision результат применения политики к запросу.
type Decision struct {
	Allow      bool   // Пропустить запрос дальше
	RedirectTo string // Цель перенаправления, если Allow == false
}

func allow() Decision                 { return Decision{Allow: true} }
func redirect(target string) Decision { return Decision{RedirectTo: target} }

// IsPublic сообщает, входит ли путь в открытый набор.
func IsPublic(path string) bool {
	_, ok := publicRoutes[path]
	return ok
}

// FailClosed решение при невозможности определить вызывающего или его роль.
func FailClosed() Decision {
	return redirect(ErrorPath)
}

// Evaluate применяет правила политики к запросу.
func Evaluate(authenticated bool, role, path string) Decision {
	if !authenticated {
		if !IsPublic(path) {
			return redirect(SignInPath)
		}
		return allow()
	}

	if role == "admin" && path == UserDashboardPath {
		return redirect(AdminDashboardPath)
	}

	if role != "admin" && strings.HasPrefix(path, adminPrefix) {
		return redirect(UserDashboardPath)
	}

	if IsPublic(path) && path != "/" {
		if role == "admin" {
			return redirect(AdminDashboardPath)
		}
		return redirect(UserDashboardPath)
	}

	return allow()
}
