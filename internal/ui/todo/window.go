package todo

import (
	"fmt"

	"tomato/internal/core/tasks"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

type taskRow struct {
	id     string
	check  *widget.Check
	remove *widget.Button
}

// Window shows the task list with add, toggle and delete affordances.
type Window struct {
	window    fyne.Window
	list      *tasks.List
	logger    zerolog.Logger
	entry     *widget.Entry
	addButton *widget.Button
	summary   *widget.Label
	rows      *fyne.Container
	taskRows  []taskRow
}

// New creates the tasks window and keeps it in sync with list.
func New(app fyne.App, list *tasks.List, logger zerolog.Logger) *Window {
	todo := &Window{
		window: app.NewWindow("Tasks"),
		list:   list,
		logger: logger.With().Str("component", "todo").Logger(),
		rows:   container.NewVBox(),
	}

	todo.entry = widget.NewEntry()
	todo.entry.SetPlaceHolder("What are you working on?")
	todo.entry.OnSubmitted = func(string) {
		todo.submit()
	}
	todo.addButton = widget.NewButtonWithIcon("", theme.ContentAddIcon(), todo.submit)
	todo.summary = widget.NewLabel("")

	input := container.NewBorder(nil, nil, nil, todo.addButton, todo.entry)
	content := container.NewBorder(input, todo.summary, nil, nil, container.NewVScroll(todo.rows))
	todo.window.SetContent(content)
	todo.window.Resize(fyne.NewSize(360, 420))
	todo.window.SetCloseIntercept(func() {
		todo.window.Hide()
	})

	list.OnChange(todo.Render)
	todo.Render(list.Tasks())
	return todo
}

// Show displays the window and focuses the input.
func (todo *Window) Show() {
	todo.Render(todo.list.Tasks())
	todo.window.Show()
	todo.window.RequestFocus()
	todo.window.Canvas().Focus(todo.entry)
}

// Hide closes the window without discarding it.
func (todo *Window) Hide() {
	todo.window.Hide()
}

// Render rebuilds one row per task in list order.
func (todo *Window) Render(current []tasks.Task) {
	todo.rows.RemoveAll()
	todo.taskRows = todo.taskRows[:0]

	done := 0
	for _, task := range current {
		if task.Completed {
			done++
		}
		row := todo.newRow(task)
		todo.taskRows = append(todo.taskRows, row)
		todo.rows.Add(container.NewBorder(nil, nil, nil, row.remove, row.check))
	}
	todo.rows.Refresh()

	if len(current) == 0 {
		todo.summary.SetText("No tasks yet")
		return
	}
	todo.summary.SetText(summaryText(done, len(current)))
}

func (todo *Window) newRow(task tasks.Task) taskRow {
	id := task.ID
	check := widget.NewCheck(task.Text, nil)
	check.SetChecked(task.Completed)
	check.OnChanged = func(bool) {
		todo.list.ToggleByID(id)
	}
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if todo.list.DeleteByID(id) {
			todo.logger.Debug().Str("task", id).Msg("task deleted")
		}
	})
	remove.Importance = widget.LowImportance
	return taskRow{id: id, check: check, remove: remove}
}

func (todo *Window) submit() {
	task, added := todo.list.Add(todo.entry.Text)
	if !added {
		return
	}
	todo.logger.Debug().Str("task", task.ID).Msg("task added")
	todo.entry.SetText("")
}

func summaryText(done, total int) string {
	if done == total {
		return "All done!"
	}
	return fmt.Sprintf("%d of %d done", done, total)
}
