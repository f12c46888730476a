package tui

import (
	"fmt"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
	"github.com/gcla/gowid/widgets/selectable"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
)

// An ItemList renders the rows of the buy list in server order.
// It implements gowid.IWidget by delegating to its presentation.
type ItemList struct {
	ui           *TUI
	presentation list.IWidget
	abstraction  *itemListAbstraction
}

// NewItemList returns a new ItemList.
func NewItemList(ui *TUI) *ItemList {
	abs := newItemListAbstraction()

	return &ItemList{
		ui:           ui,
		presentation: list.New(abs),
		abstraction:  abs,
	}
}

// Replace swaps the whole list for a fresh snapshot. The rows arrive
// already ordered, no client-side sorting happens.
func (w *ItemList) Replace(rows []Row, app gowid.IApp) {
	w.abstraction.Replace(rows)

	if len(rows) > 0 {
		w.ui.load(w.abstraction.RowAt(0), app)
	}
}

// Focused returns the currently focused row.
func (w *ItemList) Focused() (Row, bool) {
	if w.abstraction.Length() == 0 {
		return Row{}, false
	}
	return w.abstraction.RowAt(int(w.abstraction.focus)), true
}

func label(row Row) string {
	updated := ""
	if row.UpdatedAt != nil {
		updated = row.UpdatedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%-4s %s  %s", row.Priority, row.BodyText, updated)
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *ItemList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *ItemList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *ItemList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	ok := w.presentation.UserInput(ev, size, focus, app)

	if evm, ok := ev.(*tcell.EventMouse); !ok || evm.Buttons() != tcell.ButtonNone {
		// Avoid next action on mouse hover event
		if w.abstraction.Length() > 0 {
			// Fill the editor pane with the focused row
			w.ui.load(w.abstraction.RowAt(int(w.abstraction.focus)), app)
		}
	}
	return ok
}

// Selectable implements gowid.IWidget
func (w *ItemList) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// An itemListAbstraction is a list of rows to interract with.
// It implements list.IWalker interface.
type itemListAbstraction struct {
	rows    []Row
	widgets []gowid.IWidget
	focus   list.ListPos
}

func newItemListAbstraction() *itemListAbstraction {
	return &itemListAbstraction{focus: 0}
}

func (w *itemListAbstraction) Replace(rows []Row) {
	w.rows = rows
	w.widgets = make([]gowid.IWidget, 0, len(rows))

	for _, row := range rows {
		w.widgets = append(w.widgets, selectable.New(
			styled.NewExt(
				text.New(label(row)),
				gowid.MakePaletteRef("normal"), gowid.MakePaletteRef("focused"),
			),
		))
	}

	if int(w.focus) >= len(rows) {
		w.focus = 0
	}
}

func (w *itemListAbstraction) RowAt(i int) Row {
	return w.rows[i]
}

func (w *itemListAbstraction) First() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *itemListAbstraction) Last() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(len(w.widgets) - 1)
}

func (w *itemListAbstraction) Length() int {
	return len(w.widgets)
}

func (w *itemListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.widgets[ipos]
	}
	return res
}

func (w *itemListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *itemListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *itemListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *itemListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
