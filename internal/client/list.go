package client

import (
	"fmt"
	"runtime"

	"github.com/mdouchement/impulsestop/internal/client/tui"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// List runs the text-based buy list application.
func List() error {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = fmt.Errorf("%v", r)
			}
			stack := make([]byte, 4<<10)
			length := runtime.Stack(stack, true)

			tui.NewLogger().Printf("[PANIC RECOVER] %s %s\n", err, stack[:length])
		}
	}()

	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	//
	//

	apiclient, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach impulsestop endpoint")
	}
	apiclient.SetBearerToken(cfg.BearerToken)
	apiclient.SetSession(cfg.Session)

	if err = Refresh(apiclient, &cfg); err != nil {
		return err
	}

	//
	//

	session := &Session{
		User: libis.User{
			ID:        cfg.UserID,
			Email:     cfg.Email,
			Anonymous: cfg.Anonymous,
		},
		Session: cfg.Session,
	}
	registry := NewRegistry()

	var ui *tui.TUI
	var view *ListView
	editor := NewEditor(apiclient, nil)

	alert := AlertFunc(func(title, message string) {
		if message == "" {
			ui.DisplayStatus(title)
			return
		}
		ui.DisplayStatus(title + ": " + message)
	})
	editor.alert = alert

	view = NewListView(apiclient, session, registry, alert, func() {
		rows := make([]tui.Row, 0)
		for _, item := range view.Items() {
			rows = append(rows, tui.Row{
				ID:           item.ID,
				BodyText:     item.BodyText,
				Priority:     item.Priority,
				PriorityCode: item.PriorityCode,
				UpdatedAt:    item.UpdatedAt,
			})
		}
		ui.SetRows(rows)
	})

	ui, err = tui.New(tui.Hooks{
		Save: func(id, body string, priority int) bool {
			if id == "" && !view.CanAdd() {
				return false
			}

			editor.ID = id
			editor.BodyText = body
			editor.Priority = priority
			return editor.Save()
		},
		Delete: view.Delete,
		SortChanged: func(key string) {
			spec, err := libis.ParseSortKey(key)
			if err != nil {
				return
			}
			view.SetSort(spec)
		},
	})
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	view.Mount()
	defer view.Unmount()
	ui.SetCatalog(view.Catalog())

	ui.Run()
	return nil
}
