package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
)

const (
	maxSourceFiles  = 20
	maxScrapePosts  = 100
	maxKeywordRunes = 64
)

var allowedMetrics = map[string]bool{
	"likes":    true,
	"collects": true,
	"comments": true,
}

var allowedOperators = map[string]bool{
	"gte": true,
	"lte": true,
	"gt":  true,
	"lt":  true,
	"eq":  true,
}

var allowedImageTargets = map[string]bool{
	"cover_image": true,
	"images":      true,
}

var allowedTextTargets = map[string]bool{
	"title":   true,
	"content": true,
}

// ValidateSubmitRequest checks a dashboard submit payload before it is
// turned into an opaque backend config.
func ValidateSubmitRequest(req *models.SubmitRequest) error {
	switch req.Type {
	case models.KindCleaning:
		if req.Cleaning == nil {
			return fmt.Errorf("%w: cleaning config is required", errs.ErrInvalidTaskType)
		}
		return ValidateCleaningConfig(req.Cleaning)
	case models.KindScrape:
		if req.Scrape == nil {
			return fmt.Errorf("%w: scrape config is required", errs.ErrInvalidTaskType)
		}
		return ValidateScrapeConfig(req.Scrape)
	}

	return fmt.Errorf("%w: %q", errs.ErrInvalidTaskType, req.Type)
}

func ValidateCleaningConfig(cfg *models.CleaningConfig) error {
	if len(cfg.SourceFiles) == 0 {
		return errs.ErrNoSourceFiles
	}
	if len(cfg.SourceFiles) > maxSourceFiles {
		return fmt.Errorf("%w: at most %d source files", errs.ErrInvalidSource, maxSourceFiles)
	}

	for _, name := range cfg.SourceFiles {
		if strings.ToLower(filepath.Ext(name)) != ".json" {
			return fmt.Errorf("%w: %s", errs.ErrInvalidSource, name)
		}
	}

	if cfg.FilterBy != nil {
		if !allowedMetrics[cfg.FilterBy.Metric] {
			return fmt.Errorf("%w: unknown metric %q", errs.ErrInvalidFilter, cfg.FilterBy.Metric)
		}
		if !allowedOperators[cfg.FilterBy.Operator] {
			return fmt.Errorf("%w: unknown operator %q", errs.ErrInvalidFilter, cfg.FilterBy.Operator)
		}
		if cfg.FilterBy.Value < 0 {
			return fmt.Errorf("%w: negative value", errs.ErrInvalidFilter)
		}
	}

	if cfg.LabelBy != nil {
		if cfg.LabelBy.Prompt == "" {
			return fmt.Errorf("%w: prompt is required", errs.ErrInvalidLabel)
		}
		if cfg.LabelBy.ImageTarget == "" && cfg.LabelBy.TextTarget == "" {
			return fmt.Errorf("%w: at least one of image or text target", errs.ErrInvalidLabel)
		}
		if cfg.LabelBy.ImageTarget != "" && !allowedImageTargets[cfg.LabelBy.ImageTarget] {
			return fmt.Errorf("%w: unknown image target %q", errs.ErrInvalidLabel, cfg.LabelBy.ImageTarget)
		}
		if cfg.LabelBy.TextTarget != "" && !allowedTextTargets[cfg.LabelBy.TextTarget] {
			return fmt.Errorf("%w: unknown text target %q", errs.ErrInvalidLabel, cfg.LabelBy.TextTarget)
		}
		for _, cat := range cfg.LabelBy.Categories {
			if cat.Name == "" {
				return fmt.Errorf("%w: category without a name", errs.ErrInvalidLabel)
			}
		}
	}

	return nil
}

func ValidateScrapeConfig(cfg *models.ScrapeConfig) error {
	if cfg.AccountID <= 0 {
		return fmt.Errorf("%w: account id is required", errs.ErrInvalidScrape)
	}

	keyword := strings.TrimSpace(cfg.Keyword)
	if keyword == "" {
		return fmt.Errorf("%w: keyword is required", errs.ErrInvalidScrape)
	}
	if len([]rune(keyword)) > maxKeywordRunes {
		return fmt.Errorf("%w: keyword too long", errs.ErrInvalidScrape)
	}

	if cfg.MaxPosts <= 0 || cfg.MaxPosts > maxScrapePosts {
		return fmt.Errorf("%w: max_posts must be between 1 and %d", errs.ErrInvalidScrape, maxScrapePosts)
	}

	if cfg.MinLikes < 0 || cfg.MinCollects < 0 || cfg.MinComments < 0 {
		return fmt.Errorf("%w: filter thresholds must not be negative", errs.ErrInvalidScrape)
	}

	return nil
}
