package tui

import (
	"fmt"
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// A Row is one rendered line of the buy list.
type Row struct {
	ID           string
	BodyText     string
	Priority     string
	PriorityCode int
	UpdatedAt    *time.Time
}

// Hooks are the actions the TUI delegates to the application layer.
// The TUI never talks to the server itself.
type Hooks struct {
	// Save persists the draft, with an id it overwrites, without one it
	// creates. It returns true when the write went through.
	Save func(id, body string, priority int) bool
	// Delete removes the item with the given id.
	Delete func(id string)
	// SortChanged reopens the live query with the given sort key.
	SortChanged func(key string)
}

// A TUI is the text-based interface of the buy list.
type TUI struct {
	App   *gowid.App
	hooks Hooks

	catalog []libis.Priority
	sort    int // index in libis.SortChoices()

	draftID       string
	draftPriority int
	pendingDelete string

	list   *ItemList
	input  *edit.Widget
	editor *framed.Widget
	status *text.Widget
}

// New returns a new TUI.
func New(hooks Hooks) (*TUI, error) {
	ui := &TUI{hooks: hooks, draftPriority: 1}

	app, err := gowid.NewApp(layout(ui))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}

	ui.App = app
	return ui, nil
}

// Run starts the application and thus the event loop.
func (ui *TUI) Run() {
	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// SetCatalog stores the priority catalog used for cycling the draft's
// priority.
func (ui *TUI) SetCatalog(catalog []libis.Priority) {
	ui.catalog = catalog
}

// SetRows replaces the whole list with a fresh snapshot. Safe to call
// from any goroutine.
func (ui *TUI) SetRows(rows []Row) {
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.list.Replace(rows, app)
	}))
}

// DisplayStatus displays a message in the status bar (aka notifications).
// No-op until New has wired the application.
func (ui *TUI) DisplayStatus(message string) {
	if ui.App == nil {
		return
	}
	ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
		ui.status.SetText(message, ui.App)
	}))
	go func() {
		timer := time.NewTimer(2 * time.Second)
		<-timer.C
		ui.App.Run(gowid.RunFunction(func(app gowid.IApp) { // nolint:errcheck
			ui.status.SetText("", ui.App)
		}))
	}()
}

// load fills the editor pane with the focused row.
func (ui *TUI) load(row Row, app gowid.IApp) {
	ui.draftID = row.ID
	ui.draftPriority = row.PriorityCode
	ui.input.SetText(row.BodyText, app)
	ui.editor.SetTitle(ui.draftTitle(), app)
}

// reset empties the editor pane for a new draft.
func (ui *TUI) reset(app gowid.IApp) {
	ui.draftID = ""
	if len(ui.catalog) > 0 {
		ui.draftPriority = ui.catalog[0].ID
	}
	ui.input.SetText("", app)
	ui.editor.SetTitle(ui.draftTitle(), app)
}

func (ui *TUI) draftTitle() string {
	name := priorityName(ui.catalog, ui.draftPriority)
	if ui.draftID == "" {
		return fmt.Sprintf("new [%s]", name)
	}
	return fmt.Sprintf("edit [%s]", name)
}

func priorityName(catalog []libis.Priority, code int) string {
	for _, priority := range catalog {
		if priority.ID == code {
			return priority.Name
		}
	}
	return ""
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI) gowid.AppArgs {
	ui.list = NewItemList(ui)
	ui.input = edit.New()
	ui.editor = framed.NewUnicode(ui.input)
	ui.editor.SetTitle("new", nil)
	ui.status = text.New("")

	// Warn while typing, the save itself stays explicit.
	debounced := debounce.New(500 * time.Millisecond)
	ui.input.OnTextSet(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(app gowid.IApp, iw gowid.IWidget) {
		debounced(func() {
			if ui.input.Text() == "" {
				ui.DisplayStatus("Body text can't be empty")
			}
		})
	}})

	buyPane := columns.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.list), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 3},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.editor, gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	main := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: buyPane, D: gowid.RenderWithWeight{W: 20}},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.status), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	return gowid.AppArgs{
		View: main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			// List style
			"normal":  gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"focused": gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
		},
		Log: NewLogger(),
	}
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	handled := true

	switch evk.Key() {
	case tcell.KeyCtrlQ:
		app.Quit()
	case tcell.KeyCtrlN:
		ui.reset(app)
	case tcell.KeyCtrlS:
		if ui.hooks.Save(ui.draftID, ui.input.Text(), ui.draftPriority) {
			ui.reset(app)
		}
	case tcell.KeyCtrlP:
		ui.cycleDraftPriority(app)
	case tcell.KeyCtrlD:
		if row, ok := ui.list.Focused(); ok {
			ui.requestDelete(row.ID)
		}
	case tcell.KeyCtrlO:
		ui.cycleSort()
	default:
		handled = false
	}

	return handled
}

// requestDelete is the two-step delete: the first press on a row arms
// it, a second press on the same row confirms and issues the delete.
// Pressing on another row re-arms from scratch.
func (ui *TUI) requestDelete(id string) {
	if ui.pendingDelete != id {
		ui.pendingDelete = id
		ui.DisplayStatus("Press Ctrl+D again to delete")
		return
	}

	ui.pendingDelete = ""
	ui.hooks.Delete(id)
}

func (ui *TUI) cycleDraftPriority(app gowid.IApp) {
	if len(ui.catalog) == 0 {
		return
	}

	next := 0
	for i, priority := range ui.catalog {
		if priority.ID == ui.draftPriority {
			next = (i + 1) % len(ui.catalog)
			break
		}
	}
	ui.draftPriority = ui.catalog[next].ID
	ui.editor.SetTitle(ui.draftTitle(), app)
}

func (ui *TUI) cycleSort() {
	choices := libis.SortChoices()
	ui.sort = (ui.sort + 1) % len(choices)

	choice := choices[ui.sort]
	ui.DisplayStatus("sorted by " + choice.Label())
	ui.hooks.SortChanged(choice.Key())
}
