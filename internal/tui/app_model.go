package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"smartshop/internal/grocery"
	"smartshop/internal/logging"
	"smartshop/internal/recipe"
	"smartshop/internal/store"
)

const flashDuration = 3 * time.Second

type appModel struct {
	store   store.Store
	state   *grocery.State
	cfg     *store.GlobalConfig
	log     *log.Logger
	recipes *recipe.Client
	// changes signals on-disk edits; nil when the watcher could not start.
	changes <-chan struct{}

	width  int
	height int

	view          view
	modal         modalKind
	showCompleted bool

	itemsList    list.Model
	categoryList list.Model
	orderList    list.Model
	input        textinput.Model
	confirmFocus confirmModalFocus
	// modalForID is the item a modal acts on (category picker).
	modalForID string

	settingsIdx int

	recipeIngredient string
	recipeMeals      []recipe.Summary
	recipeIdx        int
	recipeLoading    bool
	recipeErr        string

	flash    string
	flashErr bool
	flashSeq int

	// initCmd runs once from Init (e.g. fetching recipes for a restored recipes view).
	initCmd tea.Cmd
}

func newAppModel(s store.Store, st *grocery.State, opt Options) appModel {
	cfg := opt.Config
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	m := appModel{
		store:   s,
		state:   st,
		cfg:     cfg,
		log:     logging.OrDiscard(opt.Logger),
		recipes: recipe.NewClient(cfg.RecipeBaseURL),
		changes: opt.Changes,
		view:    viewList,
	}

	m.itemsList = newList("Items", nil, rowDelegate{})
	m.categoryList = newList("Categories", nil, compactItemDelegate{})
	m.orderList = newList("Order", nil, compactItemDelegate{})

	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 200

	if ts := opt.State; ts != nil {
		m.view = viewFromString(ts.View)
		m.showCompleted = ts.ShowCompleted
		m.refreshItems(ts.SelectedItemID)
	} else {
		m.refreshItems("")
	}
	if m.view == viewRecipes {
		m.initCmd = m.startRecipes()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(waitForStoreChange(m.changes), m.initCmd)
}

// refreshItems rebuilds the list rows from state, keeping the cursor on keepID when possible.
func (m *appModel) refreshItems(keepID string) {
	if keepID == "" {
		if it, ok := selectedItem(m.itemsList); ok {
			keepID = it.ID
		}
	}
	m.itemsList.SetItems(buildRows(m.state, m.showCompleted))
	selectItemID(&m.itemsList, keepID)
}

func (m *appModel) resizeLists() {
	// Leave room for header/footer.
	h := m.height - 5
	if h < 4 {
		h = 4
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.itemsList.SetSize(w, h)
	bodyW := modalBodyWidth(m.width)
	m.categoryList.SetSize(bodyW, len(m.categoryList.Items()))
	m.orderList.SetSize(bodyW, len(m.orderList.Items()))
}

func (m *appModel) setFlash(msg string, isErr bool) tea.Cmd {
	m.flash = msg
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashTimeoutMsg{seq: seq} })
}

func (m *appModel) fail(action string, err error) tea.Cmd {
	m.log.Error(action+" failed", "err", err)
	return m.setFlash(action+" failed: "+err.Error(), true)
}

func (m appModel) tuiState() *store.TUIState {
	ts := &store.TUIState{
		Version:       1,
		View:          m.view.String(),
		ShowCompleted: m.showCompleted,
	}
	if m.view == viewHelp {
		ts.View = viewList.String()
	}
	if it, ok := selectedItem(m.itemsList); ok {
		ts.SelectedItemID = it.ID
	}
	return ts
}

func (m appModel) saveTUIState() {
	if err := m.store.SaveTUIState(m.tuiState()); err != nil {
		m.log.Warn("could not save tui state", "err", err)
	}
}

func waitForStoreChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m appModel) reloadCmd() tea.Cmd {
	s := m.store
	l := m.log
	base, rev := m.state, m.state.Revision()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := grocery.Load(ctx, s, grocery.WithLogger(l))
		return reloadedMsg{state: st, err: err, base: base, rev: rev}
	}
}

func (m *appModel) startRecipes() tea.Cmd {
	ing := recipe.MainIngredient(m.state.ActiveItems())
	m.recipeIngredient = ing
	m.recipeMeals = nil
	m.recipeIdx = 0
	m.recipeErr = ""
	if ing == "" {
		m.recipeLoading = false
		return nil
	}
	m.recipeLoading = true
	c := m.recipes
	return func() tea.Msg {
		meals, err := c.Suggest(context.Background(), ing)
		return recipesLoadedMsg{ingredient: ing, meals: meals, err: err}
	}
}

func (m *appModel) lookupMeal(id string) tea.Cmd {
	m.recipeLoading = true
	c := m.recipes
	return func() tea.Msg {
		meal, ok, err := c.Lookup(context.Background(), id)
		return mealLoadedMsg{meal: meal, ok: ok, err: err}
	}
}
