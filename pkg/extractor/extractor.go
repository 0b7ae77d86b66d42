// Package extractor locates media entries in fetched post content.
//
// The source site's markup is not a stable contract, so extraction is
// organized as a fixed-priority list of strategies. Each strategy knows one
// shape the site has been observed to embed media in; the first strategy
// that yields at least one entry wins. New shapes get a new strategy, the
// pipeline stays untouched.
package extractor

import (
	"xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

// Strategy attempts to extract media entries from one known content shape.
// A nil error with no entries means the content was understood but holds no
// media in this shape; an error means the content is not this shape at all.
type Strategy interface {
	Name() string
	TryExtract(content []byte) ([]models.MediaEntry, error)
}

// Extractor runs strategies in priority order
type Extractor struct {
	strategies []Strategy
	logger     logger.Logger
}

// New creates an extractor with the default strategy order: structured
// syndication JSON first, then mirror API JSON, then inline
// script-embedded JSON, then a raw HTML attribute scan.
func New(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{
		strategies: []Strategy{
			&SyndicationStrategy{},
			&MirrorJSONStrategy{},
			&InlineJSONStrategy{},
			&HTMLAttrStrategy{},
		},
		logger: log,
	}
}

// NewWithStrategies creates an extractor with a caller-supplied strategy
// list, tried in the given order.
func NewWithStrategies(log logger.Logger, strategies ...Strategy) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{strategies: strategies, logger: log}
}

// Extract produces the post's media entries in their original order.
// An empty result with a nil error means the post has no media. A parse
// error is returned only when no strategy can interpret the content.
func (e *Extractor) Extract(content []byte) ([]models.MediaEntry, error) {
	interpreted := false

	for _, s := range e.strategies {
		entries, err := s.TryExtract(content)
		if err != nil {
			e.logger.DebugWithFields("extraction strategy rejected content", map[string]interface{}{
				"strategy": s.Name(),
				"error":    err.Error(),
			})
			continue
		}
		interpreted = true
		if len(entries) > 0 {
			e.logger.InfoWithFields("media entries extracted", map[string]interface{}{
				"strategy": s.Name(),
				"count":    len(entries),
			})
			return entries, nil
		}
		e.logger.DebugWithFields("strategy found no media", map[string]interface{}{
			"strategy": s.Name(),
		})
	}

	if !interpreted {
		return nil, errors.New(errors.ErrorTypeParse, "extract",
			"content could not be interpreted by any extraction strategy")
	}

	// Understood the content, found no media. Valid outcome.
	return []models.MediaEntry{}, nil
}
