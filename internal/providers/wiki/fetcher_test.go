package wiki_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/mocks"
	"github.com/cardkeeper/card-indexer/internal/providers/wiki"
)

type testFetcherMocks struct {
	ctrl     *gomock.Controller
	launcher *mocks.MockBrowserLauncher
	browser  *mocks.MockBrowser
	page     *mocks.MockPage
	fetcher  wiki.Fetcher
}

func setupTestFetcher(t *testing.T) *testFetcherMocks {
	ctrl := gomock.NewController(t)
	m := &testFetcherMocks{
		ctrl:     ctrl,
		launcher: mocks.NewMockBrowserLauncher(ctrl),
		browser:  mocks.NewMockBrowser(ctrl),
		page:     mocks.NewMockPage(ctrl),
	}
	m.fetcher = wiki.NewFetcher(wiki.Config{PageURLTemplate: "https://wiki.example/%s"}, m.launcher)
	return m
}

func tearDownTestFetcher(m *testFetcherMocks) {
	m.ctrl.Finish()
}

func TestFetchSetPage_Success(t *testing.T) {
	m := setupTestFetcher(t)
	defer tearDownTestFetcher(m)

	m.launcher.EXPECT().Launch(gomock.Any()).Return(m.browser, nil)
	m.browser.EXPECT().NewPage(gomock.Any()).Return(m.page, nil)
	m.page.EXPECT().Navigate(gomock.Any(), "https://wiki.example/Metal_Raiders").Return(nil)
	m.page.EXPECT().HTML(gomock.Any()).Return("<html></html>", nil)
	m.page.EXPECT().Close().Return(nil)
	m.browser.EXPECT().Close().Return(nil)

	html, err := m.fetcher.FetchSetPage(context.Background(), "Metal Raiders")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
}

func TestFetchSetPage_NavigationFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.ErrorKind
	}{
		{name: "connection reset", err: &rod.NavigationError{Reason: "net::ERR_CONNECTION_RESET"}, wantKind: domain.ErrorKindTransient},
		{name: "socket not connected", err: &rod.NavigationError{Reason: "net::ERR_SOCKET_NOT_CONNECTED"}, wantKind: domain.ErrorKindTransient},
		{name: "connection closed", err: &rod.NavigationError{Reason: "net::ERR_CONNECTION_CLOSED"}, wantKind: domain.ErrorKindTransient},
		{name: "name not resolved", err: &rod.NavigationError{Reason: "net::ERR_NAME_NOT_RESOLVED"}, wantKind: domain.ErrorKindTransient},
		{name: "cert verifier changed", err: &rod.NavigationError{Reason: "net::ERR_CERT_VERIFIER_CHANGED"}, wantKind: domain.ErrorKindTransient},
		{name: "timeout", err: fmt.Errorf("wait load: %w", context.DeadlineExceeded), wantKind: domain.ErrorKindTransient},
		{name: "aborted", err: &rod.NavigationError{Reason: "net::ERR_ABORTED"}, wantKind: domain.ErrorKindExternal},
		{name: "unknown", err: errors.New("target closed"), wantKind: domain.ErrorKindExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestFetcher(t)
			defer tearDownTestFetcher(m)

			m.launcher.EXPECT().Launch(gomock.Any()).Return(m.browser, nil)
			m.browser.EXPECT().NewPage(gomock.Any()).Return(m.page, nil)
			m.page.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(tt.err)
			m.page.EXPECT().Close().Return(nil)
			m.browser.EXPECT().Close().Return(nil)

			_, err := m.fetcher.FetchSetPage(context.Background(), "Metal Raiders")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
		})
	}
}

func TestFetchSetPage_LaunchFailure(t *testing.T) {
	m := setupTestFetcher(t)
	defer tearDownTestFetcher(m)

	m.launcher.EXPECT().Launch(gomock.Any()).Return(nil, errors.New("chrome not found"))

	_, err := m.fetcher.FetchSetPage(context.Background(), "Metal Raiders")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindExternal, domain.KindOf(err))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t,
		"https://yugipedia.com/wiki/Set_Card_Lists:Legend_of_Blue_Eyes_White_Dragon_(TCG-EN)",
		wiki.PageURL(wiki.DEFAULT_PAGE_URL_TEMPLATE, " Legend of Blue Eyes White Dragon "))
	assert.Equal(t, "https://wiki.example/Pharaoh%27s_Servant", wiki.PageURL("https://wiki.example/%s", "Pharaoh's Servant"))
}
