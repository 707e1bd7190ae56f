package cardinfo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/ratelimit"
)

const (
	// API_ENDPOINT is the default base URL of the card info API
	API_ENDPOINT = "https://db.ygoprodeck.com/api/v7"

	// PROVIDER_NAME keys the card info budget in the rate limit proxy
	PROVIDER_NAME = "cardinfo"
)

// CardInfoResponse represents the cardinfo endpoint response
type CardInfoResponse struct {
	Data []CardInfo `json:"data"`
}

// CardInfo represents a card from the card info API
type CardInfo struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	Type                  string      `json:"type"`
	FrameType             string      `json:"frameType"`
	Desc                  string      `json:"desc"`
	Race                  string      `json:"race"`
	Attribute             *string     `json:"attribute,omitempty"`
	Archetype             *string     `json:"archetype,omitempty"`
	Atk                   *int        `json:"atk,omitempty"`
	Def                   *int        `json:"def,omitempty"`
	Level                 *int        `json:"level,omitempty"`
	LinkVal               *int        `json:"linkval,omitempty"`
	LinkMarkers           []string    `json:"linkmarkers,omitempty"`
	PendDesc              *string     `json:"pend_desc,omitempty"`
	MonsterDesc           *string     `json:"monster_desc,omitempty"`
	HumanReadableCardType string      `json:"humanReadableCardType"`
	CardImages            []CardImage `json:"card_images"`
}

// CardImage represents an image entry of a card
type CardImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

// SetInfo represents a single printing returned by the card set info endpoint
type SetInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SetName   string `json:"set_name"`
	SetCode   string `json:"set_code"`
	SetRarity string `json:"set_rarity"`
}

// ToDomain converts the API card to the domain card
func (c CardInfo) ToDomain() domain.Card {
	card := domain.Card{
		ExternalID:        c.ID,
		Name:              c.Name,
		Type:              c.Type,
		FrameType:         c.FrameType,
		Description:       c.Desc,
		Race:              c.Race,
		Attribute:         c.Attribute,
		Archetype:         c.Archetype,
		Attack:            c.Atk,
		Defense:           c.Def,
		Level:             c.Level,
		LinkRating:        c.LinkVal,
		LinkMarkers:       c.LinkMarkers,
		PendulumText:      c.PendDesc,
		MonsterText:       c.MonsterDesc,
		HumanReadableType: c.HumanReadableCardType,
	}
	if len(c.CardImages) > 0 && c.CardImages[0].ImageURL != "" {
		imageURL := c.CardImages[0].ImageURL
		card.ImageURL = &imageURL
	}
	return card
}

// Client defines the interface for card info operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/cardinfo_client.go -package=mocks -mock_names=Client=MockCardInfoClient
type Client interface {
	// GetCardsBySet fetches every card printed in the named set
	GetCardsBySet(ctx context.Context, setName string) ([]domain.Card, error)

	// GetSetNamesByCode resolves the set names an edition code was printed in
	GetSetNamesByCode(ctx context.Context, code string) ([]string, error)
}

// CardInfoClient implements the card info client
type CardInfoClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiBaseURL     string
}

// NewClient creates a new card info client. A nil proxy calls the API unthrottled.
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiBaseURL string) Client {
	return &CardInfoClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiBaseURL:     strings.TrimSuffix(apiBaseURL, "/"),
	}
}

// get performs a throttled GET and decodes the body into result
func (c *CardInfoClient) get(ctx context.Context, u string, result any) error {
	_, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.httpClient.Get(ctx, u, result)
	})
	return err
}

// GetCardsBySet fetches every card printed in the named set
func (c *CardInfoClient) GetCardsBySet(ctx context.Context, setName string) ([]domain.Card, error) {
	u := fmt.Sprintf("%s/cardinfo.php?cardset=%s", c.apiBaseURL, url.QueryEscape(setName))

	var response CardInfoResponse
	if err := c.get(ctx, u, &response); err != nil {
		return nil, classify(setName, fmt.Errorf("failed to call card info API: %w", err))
	}

	cards := make([]domain.Card, 0, len(response.Data))
	for _, info := range response.Data {
		cards = append(cards, info.ToDomain())
	}

	return cards, nil
}

// GetSetNamesByCode resolves the set names an edition code was printed in
func (c *CardInfoClient) GetSetNamesByCode(ctx context.Context, code string) ([]string, error) {
	u := fmt.Sprintf("%s/cardsetsinfo.php?setcode=%s", c.apiBaseURL, url.QueryEscape(code))

	var info SetInfo
	if err := c.get(ctx, u, &info); err != nil {
		if adapter.StatusCodeOf(err) == http.StatusBadRequest || adapter.StatusCodeOf(err) == http.StatusNotFound {
			return nil, domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("%w: %s", domain.ErrSetNotFound, code))
		}
		return nil, classify("", fmt.Errorf("failed to call card set info API: %w", err))
	}

	if info.SetName == "" {
		return nil, domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("%w: %s", domain.ErrSetNotFound, code))
	}

	return []string{info.SetName}, nil
}

// classify keeps an existing kind and otherwise tags network-level and throttling failures
// as transient, everything else as external
func classify(setName string, err error) error {
	var tagged *domain.Error
	if errors.As(err, &tagged) {
		return domain.NewError(tagged.Kind, setName, err)
	}
	if isTransient(err) {
		return domain.NewError(domain.ErrorKindTransient, setName, err)
	}
	return domain.NewError(domain.ErrorKindExternal, setName, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	status := adapter.StatusCodeOf(err)
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
