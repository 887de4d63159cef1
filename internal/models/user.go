// Package models содержит доменные структуры пользователя и задачи,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет пользователя системы. Запись создаётся по webhook-событию
// user.created от провайдера идентификации; идентификатор выдаёт провайдер.
type User struct {
	UID              string     `json:"id"`                         // Идентификатор пользователя (выдан провайдером)
	Email            string     `json:"email"`                      // Электронная почта
	Role             string     `json:"role"`                       // Роль пользователя, admin или user
	IsSubscribed     bool       `json:"isSubscribed"`               // Признак активной подписки
	SubscriptionEnds *time.Time `json:"subscriptionEnds,omitempty"` // Дата окончания подписки, nil если подписки нет
	CreatedAt        time.Time  `json:"createdAt"`                  // Дата создания записи
}

// SubscriptionStatus описывает ответ на запрос статуса подписки.
type SubscriptionStatus struct {
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds,omitempty"`
}
