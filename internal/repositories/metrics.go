package repositories

import (
	"time"

	"bookmarker/internal/utils"
)

// trackQuery starts timing a query. The returned func records duration and
// status from *errp, so it is meant to be deferred with a named error return.
func trackQuery(queryType, repository string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		status := "success"
		if errp != nil && *errp != nil {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		}
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(time.Since(start).Seconds())
	}
}
