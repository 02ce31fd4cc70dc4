package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"method", "status"}) // method: "password" or "github"; status: "success" or "failed"
	TotalUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_total_users",
		Help: "Total number of registered users in the application.",
	})

	// Bookmarks and folders
	BookmarkCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_created_total",
		Help: "Total number of bookmarks created.",
	})
	FolderCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_folder_created_total",
		Help: "Total number of folders created.",
	})
	DescriptionGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_description_generated_total",
		Help: "Total number of bookmark descriptions generated.",
	})

	// Suggestions
	SuggestionAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_suggestion_attempts_total",
		Help: "Total number of suggestion attempts by outcome.",
	}, []string{"outcome"}) // outcome: "accepted", "parse_failure" or "duplicate"
	SuggestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_suggestions_total",
		Help: "Total number of suggestion requests by result.",
	}, []string{"result"})
)
