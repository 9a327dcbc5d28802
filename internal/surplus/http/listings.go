package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

// statusAll disables the status filter of a listing search.
const statusAll = "ALL"

var errNotCents = errors.New("must be a non-negative integer amount in cents")

type ListingsHandler struct {
	ListingService *service.ListingService
	AccountService *service.AccountService
}

// HandleSearch returns one page of listings.
//
//	@Summary		Search listings
//	@Description	Returns listings newest first. status defaults to ACTIVE, which also hides expired listings; pass ALL to disable the filter.
//	@Description	The X-Total-Count and Link headers describe the full result.
//	@Tags			Listings
//	@Produce		json
//	@Param			q			query		string	false	"Keyword matched against title, description and tags"
//	@Param			status		query		string	false	"ACTIVE, RESERVED, SOLD, EXPIRED or ALL"
//	@Param			minPrice	query		int		false	"Minimum price in cents"
//	@Param			maxPrice	query		int		false	"Maximum price in cents"
//	@Param			location	query		string	false	"Location substring"
//	@Param			page		query		int		false	"Zero-based page index"
//	@Param			size		query		int		false	"Page size (max 100)"
//	@Success		200			{array}		authsdk.ListingResponse	"Listings"
//	@Failure		400			{object}	authsdk.ErrorResponse	"Invalid query"
//	@Router			/listings [get].
func (h *ListingsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.ParsePage(r)
	if err != nil {
		authsdk.ErrBadRequest.WithMessage(err.Error()).WriteError(w)
		return
	}

	f, err := listingFilterFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, total, err := h.ListingService.Search(r.Context(), f, page.Size, page.Offset())
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WritePaginationHeaders(w, r.URL, page, total)
	httpx.WriteJSON(w, http.StatusOK, toListingResponses(items))
}

// HandleGet returns a single listing.
//
//	@Summary		Get listing
//	@Tags			Listings
//	@Produce		json
//	@Param			id	path		string					true	"Listing ID"
//	@Success		200	{object}	authsdk.ListingResponse	"Listing"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown listing"
//	@Router			/listings/{id} [get].
func (h *ListingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		// Malformed ids cannot name a listing
		writeError(w, r, service.ErrNotFound)
		return
	}

	l, err := h.ListingService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListingResponse(l))
}

// HandleCreate publishes a listing owned by the caller.
//
//	@Summary		Create listing
//	@Tags			Listings
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.CreateListingRequest	true	"Listing"
//	@Success		201		{object}	authsdk.ListingResponse			"Created"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing token"
//	@Router			/listings [post].
func (h *ListingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.AccountService)
	if !ok {
		return
	}

	var in service.CreateListingInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	l, err := h.ListingService.Create(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/listings/"+l.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, toListingResponse(l))
}

func listingFilterFrom(r *http.Request) (domain.ListingFilter, error) {
	q := r.URL.Query()
	f := domain.ListingFilter{
		Status:   domain.ListingActive,
		Keyword:  strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
	}

	switch s := strings.ToUpper(strings.TrimSpace(q.Get("status"))); s {
	case "":
	case statusAll:
		f.Status = ""
	default:
		f.Status = domain.ListingStatus(s)
	}

	var err error
	if f.MinPrice, err = optionalCents(q.Get("minPrice")); err != nil {
		return f, &service.ValidationError{Fields: map[string]string{"minPrice": err.Error()}}
	}
	if f.MaxPrice, err = optionalCents(q.Get("maxPrice")); err != nil {
		return f, &service.ValidationError{Fields: map[string]string{"maxPrice": err.Error()}}
	}
	return f, nil
}

func optionalCents(v string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, errNotCents
	}
	return &n, nil
}
