package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edaplatform/eda-api/infrastructure/http/response"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
	apperror "github.com/edaplatform/eda-api/pkg/error"
)

// pagination reads page and page_size; the use cases clamp the values
func pagination(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		page = p
	}
	if ps, err := strconv.Atoi(q.Get("page_size")); err == nil {
		pageSize = ps
	}
	return page, pageSize
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

// queryID parses an optional integer query parameter
func queryID(r *http.Request, key string) (*int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func decodeBody(r *http.Request, dst interface{}) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

// writeError maps err onto its status; unexpected errors are logged
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	appErr := apperror.MapError(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Error(r.Context(), "Request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	response.AppError(w, appErr)
}
