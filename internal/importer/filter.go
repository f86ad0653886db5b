package importer

import (
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/model"
)

// Filter keeps the spending rows: positive amounts outside the excluded
// categories whose description matches none of the ignored keywords.
func Filter(txns []model.Transaction, cfg config.IngestConfig) []model.Transaction {
	keywords := make([]string, 0, len(cfg.IgnoreKeywords))
	for _, kw := range cfg.IgnoreKeywords {
		if kw = strings.ToUpper(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	var kept []model.Transaction
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		if slices.Contains(cfg.ExcludeCategories, t.Category) {
			continue
		}
		if ignored(t.Description, keywords) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func ignored(desc string, keywords []string) bool {
	upper := strings.ToUpper(desc)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
