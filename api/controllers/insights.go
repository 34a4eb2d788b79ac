package controllers

import (
	"net/http"
	"strings"

	"github.com/ajdelacruz/saristore-backend/api/responses"
	"github.com/ajdelacruz/saristore-backend/internal/insights"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
)

// DashboardInsights runs one of Sari's analysis modes over the
// seller's inventory.
func DashboardInsights(svc insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insight service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseInsightMode(strings.TrimSpace(r.URL.Query().Get("mode")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode"))
			return
		}
		input := strings.TrimSpace(r.URL.Query().Get("input"))

		answer, err := svc.Analyze(r.Context(), storeID, mode, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"mode":   string(mode),
			"answer": answer,
		})
	}
}
