package public

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// fragmentMaxAge is the shared-cache lifetime of rendered detail fragments.
const fragmentMaxAge = "public, max-age=86400"

// beachListHandler serves both list and map views. A collection parameter routes the request
// through the collection resolver.
func (h *Handler) beachListHandler(view publicapp.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		query := r.URL.Query()
		req, err := h.discoveryRequest(query, view)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		var result publicapp.DiscoveryResult
		if key := strings.TrimSpace(query.Get("collection")); key != "" {
			result, err = h.discovery.DiscoverCollection(ctx, key, req)
		} else {
			result, err = h.discovery.Discover(ctx, req)
		}
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildListResponse(result, h.location))
	}
}

func (h *Handler) collectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		key := strings.TrimSpace(chi.URLParam(r, "key"))
		req, err := h.discoveryRequest(r.URL.Query(), publicapp.ViewList)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		result, err := h.discovery.DiscoverCollection(ctx, key, req)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildListResponse(result, h.location))
	}
}

func (h *Handler) collectionIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := h.discovery.Collections()
		items := make([]collectionResponse, 0, len(defs))
		for i := range defs {
			items = append(items, *buildCollection(&defs[i]))
		}
		common.WriteJSON(h.log(r.Context()), w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) beachDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		detail, err := h.discovery.Detail(ctx, chi.URLParam(r, "idOrSlug"))
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		if wantsFragment(r) {
			h.writeFragment(ctx, w, detail)
			return
		}
		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildBeachDetail(detail, h.location))
	}
}

func (h *Handler) vocabularyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levels := make([]string, 0, len(domain.CrowdLevels))
		for _, level := range domain.CrowdLevels {
			levels = append(levels, string(level))
		}
		common.WriteJSON(h.log(r.Context()), w, http.StatusOK, vocabularyResponse{
			Tags:           domain.Tags,
			Amenities:      domain.Amenities,
			Municipalities: domain.Municipalities,
			Sorts: []string{
				string(domain.SortName),
				string(domain.SortRating),
				string(domain.SortReviews),
				string(domain.SortDistance),
			},
			CrowdLevels: levels,
		})
	}
}

// discoveryRequest builds the request-scoped discovery input. Malformed coordinates are treated
// as "no location"; coordinates outside the service area are rejected.
func (h *Handler) discoveryRequest(query url.Values, view publicapp.View) (publicapp.DiscoveryRequest, error) {
	origin, err := publicapp.ParseOrigin(query)
	if err != nil {
		return publicapp.DiscoveryRequest{}, err
	}
	req := publicapp.DiscoveryRequest{
		Criteria: publicapp.ComposeFilter(query),
		Origin:   origin,
		View:     view,
		Now:      h.now(),
	}
	if truthy(query.Get("crowd")) {
		req.IncludeCrowd = true
		req.CrowdHorizon = h.crowdHorizon(query.Get("crowd_hours"))
	}
	return req, nil
}

func (h *Handler) crowdHorizon(raw string) int {
	hours, _ := common.ParsePositiveInt(raw, 0)
	return min(hours, h.maxCrowdHorizon)
}

func wantsFragment(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "fragment", "html":
		return true
	case "json":
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
