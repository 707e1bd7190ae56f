package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/cardkeeper/card-indexer/internal/api/server"
	"github.com/cardkeeper/card-indexer/internal/mocks"
)

func TestRouterMountsHub(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := mocks.NewMockSignalRServer(ctrl)
	hub.EXPECT().
		MapHTTP(gomock.Any(), server.DEFAULT_HUB_PATH).
		Do(func(mux *http.ServeMux, path string) {
			mux.HandleFunc(path+"/negotiate", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
		})

	srv := server.New(server.Config{}, mocks.NewMockCatalogService(ctrl), mocks.NewMockEnrichmentBatcher(ctrl), hub, nil)
	router := srv.Router(context.Background())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, server.DEFAULT_HUB_PATH+"/negotiate", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterWithoutHub(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := server.New(server.Config{}, mocks.NewMockCatalogService(ctrl), mocks.NewMockEnrichmentBatcher(ctrl), nil, nil)
	router := srv.Router(context.Background())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, server.DEFAULT_HUB_PATH+"/negotiate", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
