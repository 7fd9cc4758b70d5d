package api

import (
	"net/http"

	"github.com/studentsql/studentsql/internal/auth"
)

func handleExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Exporter == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "EXPORT_NOT_CONFIGURED", "table export is not enabled", false, nil)
		return
	}
	if err := auth.RequireAnyRole(r.Context(), auth.RoleExporter); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	snapshot, err := deps.Exporter.Export(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "EXPORT_FAILED", "table export failed", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}
