package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/ptax/convert"
	"github.com/sig-0/ptax/storage/mock"
)

func TestHandlers_Convert(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var (
			capturedFrom   string
			capturedTo     string
			capturedAmount decimal.Decimal
			capturedDate   string
		)

		s := &Server{
			logger: noopLogger,
			converter: &mockConverter{
				convertFn: func(
					_ context.Context,
					from, to string,
					amount decimal.Decimal,
					date string,
				) (decimal.Decimal, error) {
					capturedFrom = from
					capturedTo = to
					capturedAmount = amount
					capturedDate = date

					return decimal.RequireFromString("79.69"), nil
				},
			},
		}

		req := httptest.NewRequest(
			http.MethodGet,
			"/v1/convert?from=USD&to=EUR&amount=100&date=20/11/2014",
			http.NoBody,
		)
		w := httptest.NewRecorder()

		s.Convert(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(t, "USD", resp.From)
		assert.Equal(t, "EUR", resp.To)
		assert.Equal(t, "100", resp.Amount)
		assert.Equal(t, "20/11/2014", resp.QuotationDate)
		assert.Equal(t, "79.69", resp.Result)

		assert.Equal(t, "USD", capturedFrom)
		assert.Equal(t, "EUR", capturedTo)
		assert.True(t, decimal.NewFromInt(100).Equal(capturedAmount))
		assert.Equal(t, "20/11/2014", capturedDate)
	})

	t.Run("result keeps two decimal places", func(t *testing.T) {
		t.Parallel()

		s := &Server{
			logger: noopLogger,
			converter: &mockConverter{
				convertFn: func(
					_ context.Context,
					_, _ string,
					_ decimal.Decimal,
					_ string,
				) (decimal.Decimal, error) {
					return decimal.NewFromInt(5), nil
				},
			},
		}

		req := httptest.NewRequest(
			http.MethodGet,
			"/v1/convert?from=USD&to=USD&amount=5&date=20/11/2014",
			http.NoBody,
		)
		w := httptest.NewRecorder()

		s.Convert(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "5.00", resp.Result)
	})

	t.Run("invalid amount", func(t *testing.T) {
		t.Parallel()

		var called bool

		s := &Server{
			logger: noopLogger,
			converter: &mockConverter{
				convertFn: func(
					_ context.Context,
					_, _ string,
					_ decimal.Decimal,
					_ string,
				) (decimal.Decimal, error) {
					called = true

					return decimal.Zero, nil
				},
			},
		}

		req := httptest.NewRequest(
			http.MethodGet,
			"/v1/convert?from=USD&to=EUR&amount=abc&date=20/11/2014",
			http.NoBody,
		)
		w := httptest.NewRecorder()

		s.Convert(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)

		resp := decodeError(t, w)
		assert.Equal(t, convert.KindInvalidInput.String(), resp.Kind)
	})

	testTable := []struct {
		err          error
		name         string
		expectedKind string
		expectedCode int
	}{
		{
			fmt.Errorf("%w: empty currency", convert.ErrInvalidInput),
			"invalid input",
			"invalid_input",
			http.StatusBadRequest,
		},
		{
			fmt.Errorf("%w: %q", convert.ErrNotFound, "???"),
			"currency not found",
			"not_found",
			http.StatusNotFound,
		},
		{
			fmt.Errorf("%w: sheet missing", convert.ErrDataUnavailable),
			"data unavailable",
			"data_unavailable",
			http.StatusBadGateway,
		},
		{
			fmt.Errorf("%w: bad number", convert.ErrMalformedData),
			"malformed data",
			"malformed_data",
			http.StatusBadGateway,
		},
		{
			errors.New("boom"),
			"unexpected failure",
			"unknown",
			http.StatusInternalServerError,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			s := &Server{
				logger: noopLogger,
				converter: &mockConverter{
					convertFn: func(
						_ context.Context,
						_, _ string,
						_ decimal.Decimal,
						_ string,
					) (decimal.Decimal, error) {
						return decimal.Zero, testCase.err
					},
				},
			}

			req := httptest.NewRequest(
				http.MethodGet,
				"/v1/convert?from=USD&to=EUR&amount=1&date=20/11/2014",
				http.NoBody,
			)
			w := httptest.NewRecorder()

			s.Convert(w, req)

			assert.Equal(t, testCase.expectedCode, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, testCase.expectedKind, resp.Kind)

			if testCase.expectedCode == http.StatusInternalServerError {
				assert.Equal(t, errUnableToConvert.Error(), resp.Error)
			} else {
				assert.Equal(t, testCase.err.Error(), resp.Error)
			}
		})
	}
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	t.Run("convert route requires a converter", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Storage{})
		require.NoError(t, err)

		req := httptest.NewRequest(
			http.MethodGet,
			"/v1/convert?from=USD&to=EUR&amount=1&date=20/11/2014",
			http.NoBody,
		)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("convert route", func(t *testing.T) {
		t.Parallel()

		converter := &mockConverter{
			convertFn: func(
				_ context.Context,
				_, _ string,
				_ decimal.Decimal,
				_ string,
			) (decimal.Decimal, error) {
				return decimal.RequireFromString("1.5"), nil
			},
		}

		s, err := New(&mock.Storage{}, WithConverter(converter))
		require.NoError(t, err)

		req := httptest.NewRequest(
			http.MethodGet,
			"/v1/convert?from=USD&to=EUR&amount=1&date=20/11/2014",
			http.NoBody,
		)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "1.50", resp.Result)
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Storage{})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("openapi document", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Storage{})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/v1/convert")
	})

	t.Run("docs", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Storage{})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/docs", http.NoBody)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `spec-url="/openapi.yaml"`)
		assert.Contains(t, w.Body.String(), "<title>ptax API</title>")
	})

	t.Run("extra routes", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Storage{})
		require.NoError(t, err)

		s.Routes(nil) // no-op

		s.Routes(func(router chi.Router) {
			router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		w := httptest.NewRecorder()

		s.mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestUtils_StatusForKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, statusForKind(convert.KindInvalidInput))
	assert.Equal(t, http.StatusNotFound, statusForKind(convert.KindNotFound))
	assert.Equal(t, http.StatusBadGateway, statusForKind(convert.KindDataUnavailable))
	assert.Equal(t, http.StatusBadGateway, statusForKind(convert.KindMalformedData))
	assert.Equal(t, http.StatusInternalServerError, statusForKind(convert.KindUnknown))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse

	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	return resp
}
