package model

import "smartshop/internal/catalog"

// CategoryRef is the persisted form of an item's category.
// Keywords are never stored; on load the ref is re-bound to the catalog by id.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

func RefOf(c catalog.Category) CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Emoji: c.Emoji}
}

// Category returns the catalog entry for the ref; unknown ids bind to Other.
func (r CategoryRef) Category() catalog.Category {
	return catalog.MustLookup(r.ID)
}

// Label renders "<emoji> <name>".
func (r CategoryRef) Label() string {
	return r.Emoji + " " + r.Name
}

type Item struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Subtitle  string      `json:"subtitle"`
	Category  CategoryRef `json:"category"`
	Completed bool        `json:"completed"`
	Urgent    bool        `json:"urgent"`
}

type Settings struct {
	VoiceLanguage   string   `json:"voiceLanguage"`
	CategoryOrder   []string `json:"categoryOrder"`
	WakeLockEnabled bool     `json:"wakeLockEnabled"`
	DarkMode        bool     `json:"darkMode"`
}

// DefaultVoiceLanguage is the dictation language used until the user picks one.
const DefaultVoiceLanguage = "en-SG"

func DefaultSettings() Settings {
	return Settings{
		VoiceLanguage: DefaultVoiceLanguage,
		CategoryOrder: catalog.DefaultOrder(),
	}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	out := s
	out.CategoryOrder = append([]string(nil), s.CategoryOrder...)
	return out
}
