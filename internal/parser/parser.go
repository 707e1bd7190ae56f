package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cardkeeper/card-indexer/internal/domain"
)

var (
	quoteRegex        = regexp.MustCompile(`["“”]`)
	parentheticRegex  = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	editionTableQuery = "table.sortable"
)

// column identifies how a header cell maps onto an edition row
type column int

const (
	columnExtra column = iota
	columnCardNumber
	columnSetNumber
	columnName
	columnRarity
	columnCategory
)

// Parser extracts edition rows from a card set listing page
//
//go:generate mockgen -source=parser.go -destination=../mocks/parser.go -package=mocks -mock_names=Parser=MockParser
type Parser interface {
	// ParseEditionTable parses the first sortable table of a set page.
	// Structural problems are returned as schema errors.
	ParseEditionTable(setName string, html string) ([]domain.EditionRow, error)
}

type parser struct{}

// NewParser creates a new edition table parser
func NewParser() Parser {
	return &parser{}
}

// header is a normalized header cell
type header struct {
	name   string
	column column
}

// ParseEditionTable parses the first sortable table of a set page
func (p *parser) ParseEditionTable(setName string, html string) ([]domain.EditionRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindSchema, setName, fmt.Errorf("failed to parse page: %w", err))
	}

	table := doc.Find(editionTableQuery).First()
	if table.Length() == 0 {
		return nil, domain.NewError(domain.ErrorKindSchema, setName, domain.ErrNoTableFound)
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, domain.NewError(domain.ErrorKindSchema, setName, domain.ErrNoTableFound)
	}

	headers, err := normalizeHeaders(cellTexts(rows.First()))
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindSchema, setName, err)
	}

	var result []domain.EditionRow
	rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		row, ok := buildRow(setName, headers, cells)
		if !ok {
			return
		}
		result = append(result, row)
	})

	return result, nil
}

// normalizeHeaders maps raw header text onto row columns.
// Only a code column ("Card Number" or "Set Number") is required; rows of a
// table without a name column come out nameless and are rejected downstream.
func normalizeHeaders(raw []string) ([]header, error) {
	headers := make([]header, len(raw))
	hasCode, hasName := false, false

	for i, text := range raw {
		name := cleanCell(text)
		switch strings.ToLower(name) {
		case "card number", "set number":
			if hasCode {
				headers[i] = header{name: domain.HEADER_SET_NUMBER, column: columnSetNumber}
				continue
			}
			hasCode = true
			headers[i] = header{name: domain.HEADER_CARD_NUMBER, column: columnCardNumber}
		case "name", "english name", "card name":
			if hasName {
				headers[i] = header{name: name, column: columnExtra}
				continue
			}
			hasName = true
			headers[i] = header{name: domain.HEADER_NAME, column: columnName}
		case "rarity":
			headers[i] = header{name: domain.HEADER_RARITY, column: columnRarity}
		case "category":
			headers[i] = header{name: domain.HEADER_CATEGORY, column: columnCategory}
		default:
			headers[i] = header{name: name, column: columnExtra}
		}
	}

	if !hasCode {
		return nil, domain.ErrMissingCardNumberHeader
	}
	return headers, nil
}

// buildRow maps the cells of a row onto an edition row; rows with no text are skipped
func buildRow(setName string, headers []header, cells []string) (domain.EditionRow, bool) {
	row := domain.EditionRow{CollectionName: setName}
	empty := true

	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		value := cleanCell(cells[i])
		if value == "" {
			continue
		}
		empty = false

		switch h.column {
		case columnCardNumber:
			row.CardNumber = value
		case columnSetNumber:
			row.SetNumber = value
		case columnName:
			row.Name = value
		case columnRarity:
			row.Rarity = value
		case columnCategory:
			row.Category = value
		default:
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[h.name] = value
		}
	}

	return row, !empty
}

func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cell.Text())
	})
	return cells
}

// cleanCell strips quotes and parenthesized annotations and collapses whitespace
func cleanCell(text string) string {
	text = quoteRegex.ReplaceAllString(text, "")
	text = parentheticRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
