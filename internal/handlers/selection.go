package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// Query parameters accepted by the JSON and SVG endpoints.
const (
	ParamBranch           = "branch"
	ParamApplyBranch      = "apply_branch"
	ParamMonth            = "month"
	ParamApplyMonth       = "apply_month"
	ParamBranchMonth      = "branch_month"
	ParamApplyBranchMonth = "apply_branch_month"
)

// SelectionFromQuery reads the selector values and toggles from q. Missing
// values are left blank for the service to default.
func SelectionFromQuery(q url.Values) (models.Selection, error) {
	var sel models.Selection
	sel.Overview.Branch = strings.TrimSpace(q.Get(ParamBranch))
	sel.Overview.Month = strings.TrimSpace(q.Get(ParamMonth))
	sel.PerBranch.Month = strings.TrimSpace(q.Get(ParamBranchMonth))

	toggles := []struct {
		name string
		dst  *bool
	}{
		{ParamApplyBranch, &sel.Overview.ApplyBranch},
		{ParamApplyMonth, &sel.Overview.ApplyMonth},
		{ParamApplyBranchMonth, &sel.PerBranch.ApplyMonth},
	}
	for _, t := range toggles {
		raw := q.Get(t.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return sel, errors.BadRequest(fmt.Sprintf("%s must be a boolean", t.name))
		}
		*t.dst = v
	}
	return sel, nil
}

// serviceErrors maps analytics service sentinels onto the error envelope.
var serviceErrors = []errors.Rule{
	{Target: services.ErrInvalidSelection, Code: errors.CodeValidation},
	{Target: services.ErrUnknownChart, Code: errors.CodeNotFound},
	{Target: services.ErrNoDataset, Code: errors.CodeServiceUnavail, Message: "Dataset is not loaded yet"},
}

func classify(err error) *errors.AppError {
	return errors.Classify(err, serviceErrors...)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errors.WriteError(w, logger, classify(err), observability.GetRequestID(r.Context()))
}

func writeSuccess(w http.ResponseWriter, r *http.Request, logger *slog.Logger, data any, cacheControl string) {
	if err := errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl}); err != nil {
		logger.Error("failed to write response",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

// renderPanel draws s and wraps it for the page.
func renderPanel(renderer *charts.Renderer, s models.Series) (templates.Panel, error) {
	svg, err := renderer.RenderString(s)
	if err != nil {
		return templates.Panel{}, err
	}
	return templates.Panel{
		Chart: s.Chart,
		Group: s.Group,
		Title: s.Title,
		SVG:   svg,
		Empty: s.Empty,
	}, nil
}

func renderComponent(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
