// Package metrics описывает счетчики Prometheus для бизнес-операций приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksCreated количество созданных задач.
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_tasks_created_total",
		Help: "Total number of tasks created.",
	})
	// TasksDeleted количество удаленных задач.
	TasksDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_tasks_deleted_total",
		Help: "Total number of tasks deleted.",
	})
	// QuotaRejections количество отказов по лимиту бесплатного тарифа.
	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_quota_rejections_total",
		Help: "Total number of task creations rejected by the free tier quota.",
	})
	// SubscriptionsActivated количество активаций подписки.
	SubscriptionsActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_subscriptions_activated_total",
		Help: "Total number of subscription activations.",
	})
	// UsersRegistered количество пользователей, созданных через вебхук.
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_users_registered_total",
		Help: "Total number of users registered via the identity webhook.",
	})
)
