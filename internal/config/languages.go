package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gitlab.com/ojcore.net/internal/domain"
)

// LanguageSet is the decoded content of the languages file: the runtime
// configs sent with judge calls and the compile configs for checker code.
type LanguageSet struct {
	Languages    []domain.LanguageConfig    `json:"languages"`
	SPJLanguages []domain.SPJLanguageConfig `json:"spj_languages"`
}

// LoadLanguageSet reads the language configuration file. Path comes from
// JudgeConfig.LanguagesFile.
func LoadLanguageSet(path string) (*LanguageSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages file: %w", err)
	}
	var set LanguageSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to decode languages file: %w", err)
	}
	return &set, nil
}
