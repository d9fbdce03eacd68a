package tui

import (
	"smartshop/internal/grocery"
	"smartshop/internal/recipe"
)

type view int

const (
	viewList view = iota
	viewSettings
	viewRecipes
	viewHelp
)

// String is the name persisted in tui_state.json.
func (v view) String() string {
	switch v {
	case viewSettings:
		return "settings"
	case viewRecipes:
		return "recipes"
	case viewHelp:
		return "help"
	default:
		return "list"
	}
}

func viewFromString(s string) view {
	switch s {
	case "settings":
		return viewSettings
	case "recipes":
		return viewRecipes
	default:
		// Help is never restored; it is a transient screen.
		return viewList
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalCategory
	modalVoiceLanguage
	modalOrder
	modalConfirmClear
	modalConfirmWipe
)

// settingRow is one selectable line in the settings view.
type settingRow int

const (
	settingVoiceLanguage settingRow = iota
	settingDarkMode
	settingWakeLock
	settingAppearance
	settingCategoryOrder
	settingExport
	settingClearList
	settingWipe
)

var settingRows = []settingRow{
	settingVoiceLanguage,
	settingDarkMode,
	settingWakeLock,
	settingAppearance,
	settingCategoryOrder,
	settingExport,
	settingClearList,
	settingWipe,
}

// storeChangedMsg is sent when the database changed on disk (e.g. from the CLI).
type storeChangedMsg struct{}

type flashTimeoutMsg struct{ seq int }

type recipesLoadedMsg struct {
	ingredient string
	meals      []recipe.Summary
	err        error
}

type mealLoadedMsg struct {
	meal recipe.Meal
	ok   bool
	err  error
}

type reloadedMsg struct {
	state *grocery.State
	err   error
	// base and rev identify the in-memory state the reload was started from.
	base *grocery.State
	rev  uint64
}
