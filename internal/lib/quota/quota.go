// Package quota реализует правило бесплатного тарифа: без подписки
// пользователь может иметь не более FreeTaskLimit задач одновременно.
package quota

// FreeTaskLimit максимальное количество задач для пользователя без подписки.
const FreeTaskLimit = 3

// CanCreate решает, можно ли создать новую задачу при текущем состоянии
// подписки и количестве задач владельца. Чистая функция без состояния;
// количество всегда читается из хранилища заново перед вызовом.
func CanCreate(isSubscribed bool, currentTaskCount int) bool {
	return isSubscribed || currentTaskCount < FreeTaskLimit
}
