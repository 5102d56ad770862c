package realign

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"loom/internal/services"
)

type prioritiesDocument struct {
	Priorities []Priority `toml:"priorities"`
}

// LoadPriorities reads a priorities document. Each entry needs at least one
// keyword and a saturation in [0, 1].
func LoadPriorities(path string) ([]Priority, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "realign", "priorities", "read priorities file", err)
	}

	var doc prioritiesDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "realign", "priorities", "parse priorities file", err)
	}

	for i := range doc.Priorities {
		pr := &doc.Priorities[i]
		keywords := pr.Keywords[:0]
		for _, keyword := range pr.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" {
				keywords = append(keywords, keyword)
			}
		}
		pr.Keywords = keywords
		if len(pr.Keywords) == 0 {
			return nil, services.Wrap(services.ErrValidation, "realign", "priorities",
				fmt.Sprintf("priority %d has no keywords", i+1), nil)
		}
		if pr.Saturation < 0 || pr.Saturation > 1 {
			return nil, services.Wrap(services.ErrValidation, "realign", "priorities",
				fmt.Sprintf("priority %d saturation %.2f outside [0, 1]", i+1, pr.Saturation), nil)
		}
	}
	return doc.Priorities, nil
}
