package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sig-0/ptax/convert"
	"github.com/sig-0/ptax/storage"
	"github.com/sig-0/ptax/storage/types"
)

var (
	errUnableToFetchRates      = errors.New("unable to fetch rates")
	errUnableToFetchCurrencies = errors.New("unable to fetch currencies")
	errUnableToFetchSources    = errors.New("unable to fetch sources")
	errUnableToConvert         = errors.New("unable to convert amount")

	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
	errInvalidType   = errors.New("invalid type")
	errInvalidAmount = errors.New("invalid amount (must be a decimal number)")
)

// RatesForPair serves the latest rates of the base currency quoted in the target currency
func (s *Server) RatesForPair(w http.ResponseWriter, r *http.Request) {
	// Parse the target currency
	target, err := parseCurrencySymbol(chi.URLParam(r, "target"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	s.serveRates(w, r, &target)
}

// RatesForBase serves the latest rates of the base currency, in every quoted currency
func (s *Server) RatesForBase(w http.ResponseWriter, r *http.Request) {
	s.serveRates(w, r, nil)
}

// serveRates serves the rates page matching the request's base currency and filters
func (s *Server) serveRates(w http.ResponseWriter, r *http.Request, target *types.Currency) {
	q, asOf, err := parseRateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	q.Target = target

	page, err := s.storage.RateAsOf(r.Context(), q, asOf)
	if err != nil {
		s.logger.Debug(
			"unable to fetch rates",
			"base", q.Base,
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchRates,
		)

		return
	}

	writeJSON(w, http.StatusOK, page)
}

// parseRateQuery parses the base currency path param and the
// as_of, limit, offset, source and type query params
func parseRateQuery(r *http.Request) (*types.RateQuery, time.Time, error) {
	var (
		baseParam = chi.URLParam(r, "base")

		asOfParam   = r.URL.Query().Get("as_of")
		limitParam  = r.URL.Query().Get("limit")
		offsetParam = r.URL.Query().Get("offset")

		sourceParam = r.URL.Query().Get("source")
		typeParam   = r.URL.Query().Get("type")
	)

	// Parse the base currency
	base, err := parseCurrencySymbol(baseParam)
	if err != nil {
		return nil, time.Time{}, err
	}

	// Parse the effective date (defaults to now)
	asOf, err := parseAsOf(asOfParam)
	if err != nil {
		return nil, time.Time{}, err
	}

	// Parse the pagination settings
	limit, offset, err := parseLimitOffset(limitParam, offsetParam)
	if err != nil {
		return nil, time.Time{}, err
	}

	// Parse the source and rate type (optional)
	source, rateType, err := parseSourceAndType(sourceParam, typeParam)
	if err != nil {
		return nil, time.Time{}, err
	}

	return &types.RateQuery{
		Base:     base,
		Source:   source,
		RateType: rateType,
		Limit:    limit,
		Offset:   offset,
	}, asOf, nil
}

func (s *Server) Sources(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListSources(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch sources",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSources,
		)

		return
	}

	resp := &SourcesResponse{
		Results: items,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListCurrencies(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch currencies",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchCurrencies,
		)

		return
	}

	resp := &CurrenciesResponse{
		Results: items,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var (
		fromParam   = r.URL.Query().Get("from")
		toParam     = r.URL.Query().Get("to")
		amountParam = r.URL.Query().Get("amount")
		dateParam   = r.URL.Query().Get("date")
	)

	amount, err := decimal.NewFromString(strings.TrimSpace(amountParam))
	if err != nil {
		writeKindError(w, http.StatusBadRequest, errInvalidAmount, convert.KindInvalidInput)

		return
	}

	converted, err := s.converter.Convert(
		r.Context(),
		fromParam,
		toParam,
		amount,
		dateParam,
	)
	if err != nil {
		kind := convert.KindOf(err)

		s.logger.Debug(
			"unable to convert amount",
			"kind", kind.String(),
			"err", err,
		)

		status := statusForKind(kind)
		if status == http.StatusInternalServerError {
			// Don't leak unexpected failures
			err = errUnableToConvert
		}

		writeKindError(w, status, err, kind)

		return
	}

	resp := &ConvertResponse{
		From:          fromParam,
		To:            toParam,
		Amount:        amount.String(),
		QuotationDate: dateParam,
		Result:        converted.StringFixed(convert.Places),
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusForKind maps the conversion failure kind to an HTTP status
func statusForKind(kind convert.Kind) int {
	switch kind {
	case convert.KindInvalidInput:
		return http.StatusBadRequest
	case convert.KindNotFound:
		return http.StatusNotFound
	case convert.KindDataUnavailable, convert.KindMalformedData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseAsOf(asOfRaw string) (time.Time, error) {
	v := strings.TrimSpace(asOfRaw)
	if v == "" {
		return time.Now().UTC(), nil // default is now
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.New("invalid as_of (must be RFC3339 UTC)")
	}

	return t.UTC(), nil
}

func parseLimitOffset(limitRaw, offsetRaw string) (int32, int64, error) {
	limit := storage.DefaultLimit

	if v := strings.TrimSpace(limitRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, errInvalidLimit
		}

		// Bound before narrowing, so out of range values don't wrap
		limit = int32(min(max(n, 0), int64(storage.MaxLimit))) //nolint:gosec // Bounded
	}

	limit = storage.ClampLimit(limit)

	var offset int64

	if v := strings.TrimSpace(offsetRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return 0, 0, errInvalidOffset
		}

		offset = n
	}

	return limit, offset, nil
}

func parseSourceAndType(sourceRaw, typeRaw string) (*types.Source, *types.RateType, error) {
	var src *types.Source

	if v := strings.TrimSpace(sourceRaw); v != "" {
		s := types.Source(v)

		src = &s
	}

	var rt *types.RateType

	if v := strings.TrimSpace(typeRaw); v != "" {
		t := types.RateType(strings.ToUpper(v))

		switch t {
		case types.RateTypeMID, types.RateTypeBUY, types.RateTypeSELL:
			rt = &t
		default:
			return nil, nil, errInvalidType
		}
	}

	return src, rt, nil
}

func parseCurrencySymbol(v string) (types.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 3 {
		return "", errors.New("invalid currency (must be 3 letters)")
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errors.New("invalid currency (must be A-Z)")
		}
	}

	return types.Currency(s), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}

func writeKindError(w http.ResponseWriter, status int, err error, kind convert.Kind) {
	resp := &ErrorResponse{
		Error: err.Error(),
		Kind:  kind.String(),
	}

	writeJSON(w, status, resp)
}
