package feed

import (
	"bytes"
	"fmt"

	"hknews/internal/types"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw feed payloads into ordered raw items.
type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse decodes a syndication document into its items, preserving document
// order. A document that is not well-formed or lacks the channel/item
// structure fails with a *types.ParseError. Malformed per-item fields are
// tolerated: an unparseable publish date becomes a nil PublishedAt and is
// left for the enricher to mark.
func (p *Parser) Parse(feedName string, data []byte) ([]types.RawItem, error) {
	parsed, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewParseError(feedName, err)
	}
	if parsed == nil || len(parsed.Items) == 0 && parsed.Title == "" {
		return nil, types.NewParseError(feedName, fmt.Errorf("document has no channel"))
	}

	items := make([]types.RawItem, 0, len(parsed.Items))
	for _, feedItem := range parsed.Items {
		item := types.RawItem{
			Title:       feedItem.Title,
			Description: feedItem.Description,
			Link:        feedItem.Link,
			Published:   feedItem.Published,
			PublishedAt: feedItem.PublishedParsed,
		}
		if item.Description == "" && feedItem.Content != "" {
			item.Description = feedItem.Content
		}
		items = append(items, item)
	}

	return items, nil
}
