package grocery

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"smartshop/internal/model"
)

// CanonicalLanguageTag validates a BCP 47 tag (as used for dictation) and returns its
// canonical form, e.g. "zh-cn" becomes "zh-CN".
func CanonicalLanguageTag(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("missing language tag")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag.String(), nil
}

func (s *State) updateSettings(mutate func(*model.Settings)) error {
	next := s.settings.Clone()
	mutate(&next)
	if err := s.write(nil, nil, &next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// UpdateVoiceLanguage stores the dictation language tag as given.
func (s *State) UpdateVoiceLanguage(lang string) error {
	return s.updateSettings(func(st *model.Settings) { st.VoiceLanguage = lang })
}

// UpdateCategoryOrder stores the display order as given; catalog.Ordered repairs it on read.
func (s *State) UpdateCategoryOrder(order []string) error {
	order = append([]string{}, order...)
	return s.updateSettings(func(st *model.Settings) { st.CategoryOrder = order })
}

func (s *State) UpdateWakeLock(enabled bool) error {
	return s.updateSettings(func(st *model.Settings) { st.WakeLockEnabled = enabled })
}

func (s *State) UpdateDarkMode(enabled bool) error {
	return s.updateSettings(func(st *model.Settings) { st.DarkMode = enabled })
}
