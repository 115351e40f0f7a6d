package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rosellabs/crmlens/internal/models"
)

// DefaultInfo is served when no info.yaml is configured.
func DefaultInfo() *models.Info {
	return &models.Info{
		Title:    "CRMLens - Customer Insights Dashboard",
		Subtitle: "Find at-risk accounts, upsell targets, and conversational insights.",
		Notes: []string{
			"Segmentation and churn probabilities are precomputed upstream and loaded from the processed dataset.",
			"Designed to help sales teams prioritize high-risk accounts and identify upsell opportunities.",
		},
		Features: []string{
			"At-risk account identification with churn probability visualization",
			"Upsell candidate recommendations based on customer segmentation",
			"Interactive charts and tables for data exploration",
			"Exportable segment listings for team reporting",
			"Hybrid rule and retrieval-augmented chat assistant",
		},
		TechStack: []string{
			"Go backend API and data processing",
			"BadgerDB vector index for retrieval",
			"JavaScript frontend with canvas charts",
		},
	}
}

// LoadInfo reads dashboard metadata from a YAML file. A missing file
// yields the embedded defaults; a malformed file is an error.
func LoadInfo(path string) (*models.Info, error) {
	if path == "" {
		return DefaultInfo(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultInfo(), nil
		}
		return nil, fmt.Errorf("failed to read info file %s: %w", path, err)
	}

	info := DefaultInfo()
	if err := yaml.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("failed to parse info file %s: %w", path, err)
	}
	return info, nil
}
