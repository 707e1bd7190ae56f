package marketplace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/mocks"
	"github.com/cardkeeper/card-indexer/internal/providers/marketplace"
)

func TestResolve_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	browser := mocks.NewMockBrowser(ctrl)
	page := mocks.NewMockPage(ctrl)
	resolver := marketplace.NewResolver(marketplace.Config{SearchURL: "https://market.example/search"})

	gomock.InOrder(
		browser.EXPECT().NewPage(gomock.Any()).Return(page, nil),
		page.EXPECT().Navigate(gomock.Any(), "https://market.example/search").Return(nil),
		page.EXPECT().Submit(gomock.Any(), marketplace.DEFAULT_SEARCH_SELECTOR, "MRD-001").Return(nil),
		page.EXPECT().URL(gomock.Any()).Return("https://market.example/Products/Singles/Metal-Raiders/Feral-Imp", nil),
		page.EXPECT().Close().Return(nil),
	)

	got, err := resolver.Resolve(context.Background(), browser, " MRD-001\n")
	require.NoError(t, err)
	assert.Equal(t, "https://market.example/Products/Singles/Metal-Raiders/Feral-Imp?language=1&minCondition=2", got)
}

func TestResolve_NoProductPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	browser := mocks.NewMockBrowser(ctrl)
	page := mocks.NewMockPage(ctrl)
	resolver := marketplace.NewResolver(marketplace.Config{SearchURL: "https://market.example/search"})

	browser.EXPECT().NewPage(gomock.Any()).Return(page, nil)
	page.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	page.EXPECT().Submit(gomock.Any(), gomock.Any(), "MRD-001").Return(nil)
	page.EXPECT().URL(gomock.Any()).Return("https://market.example/Search?searchString=MRD-001", nil)
	page.EXPECT().Close().Return(nil)

	_, err := resolver.Resolve(context.Background(), browser, "MRD-001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMarketplaceURLNotFound))
	assert.Equal(t, domain.ErrorKindExternal, domain.KindOf(err))
}

func TestResolve_PageClosedOnSubmitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	browser := mocks.NewMockBrowser(ctrl)
	page := mocks.NewMockPage(ctrl)
	resolver := marketplace.NewResolver(marketplace.Config{})

	browser.EXPECT().NewPage(gomock.Any()).Return(page, nil)
	page.EXPECT().Navigate(gomock.Any(), marketplace.DEFAULT_SEARCH_URL).Return(nil)
	page.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("element not found"))
	page.EXPECT().Close().Return(nil)

	_, err := resolver.Resolve(context.Background(), browser, "MRD-001")
	require.Error(t, err)
}

func TestResolve_InvalidCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := marketplace.NewResolver(marketplace.Config{}).Resolve(context.Background(), mocks.NewMockBrowser(ctrl), " ?? ")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
}

func TestSanitizeCode(t *testing.T) {
	assert.Equal(t, "MRD-001", marketplace.SanitizeCode(" MRD-001 "))
	assert.Equal(t, "LOB-EN001", marketplace.SanitizeCode("LOB-EN001*"))
	assert.Equal(t, "", marketplace.SanitizeCode("  "))
}

func TestAppendQuery(t *testing.T) {
	got, err := marketplace.AppendQuery("https://market.example/Products/x?sellerCountry=7&language=3", "language=1&minCondition=2")
	require.NoError(t, err)
	assert.Equal(t, "https://market.example/Products/x?language=1&minCondition=2&sellerCountry=7", got)
}
