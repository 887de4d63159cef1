// Package month содержит арифметику календарных месяцев для дат подписки.
//
// Используется семантика time.AddDate: при переполнении дня месяца дата
// нормализуется вперёд (31 января + 1 месяц = 2 или 3 марта). Это поведение
// зафиксировано тестами, так как прибавление месяца на границах месяцев
// неоднозначно само по себе.
package month

import "time"

// AddMonths прибавляет n календарных месяцев к дате t.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// Expired сообщает, истекла ли дата окончания подписки к моменту now.
// nil означает отсутствие подписки и не считается истечением.
func Expired(ends *time.Time, now time.Time) bool {
	return ends != nil && ends.Before(now)
}
