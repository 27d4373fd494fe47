package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
)

// LoadArticles reads every *.json file in dir, in name order, and flattens
// the article arrays they contain.
func LoadArticles(dir string) ([]domain.Article, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read article folder: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []domain.Article
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var batch []domain.Article
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}
