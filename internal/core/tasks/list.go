package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StorageKey is the store key holding the serialized task list.
const StorageKey = "pomodoroTasks"

// Task is a single todo entry.
type Task struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Store is a string key-value store used for persistence.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// List is an ordered, persisted task list.
// Insertion order is display order and persisted order.
type List struct {
	mu        sync.RWMutex
	store     Store
	logger    zerolog.Logger
	tasks     []Task
	listeners []func([]Task)
	newID     func() string
}

// New creates a List and loads any previously persisted tasks.
func New(store Store, logger zerolog.Logger) *List {
	list := &List{
		store:  store,
		logger: logger.With().Str("component", "tasks").Logger(),
		newID:  uuid.NewString,
	}
	list.Load()
	return list
}

// OnChange registers a callback invoked with a copy of the tasks after every mutation.
func (list *List) OnChange(listener func([]Task)) {
	if listener == nil {
		return
	}
	list.mu.Lock()
	list.listeners = append(list.listeners, listener)
	list.mu.Unlock()
}

// Load replaces the in-memory list with the persisted one.
// A missing or unreadable value yields an empty list.
func (list *List) Load() {
	loaded, err := decode(list.store)
	if err != nil {
		list.logger.Warn().Err(err).Msg("discarding persisted tasks")
		loaded = nil
	}

	list.mu.Lock()
	for index := range loaded {
		if loaded[index].ID == "" {
			loaded[index].ID = list.newID()
		}
	}
	list.tasks = loaded
	list.mu.Unlock()
}

// Tasks returns a copy of the current list.
func (list *List) Tasks() []Task {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return append([]Task(nil), list.tasks...)
}

// Len returns the number of tasks.
func (list *List) Len() int {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return len(list.tasks)
}

// Progress returns how many tasks are completed out of the total.
func (list *List) Progress() (done, total int) {
	list.mu.RLock()
	defer list.mu.RUnlock()
	for _, task := range list.tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(list.tasks)
}

// Add appends a task with the trimmed text. Blank text is ignored.
func (list *List) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}

	task := Task{ID: list.newID(), Text: text}
	list.mutate(func(tasks []Task) ([]Task, bool) {
		return append(tasks, task), true
	})
	return task, true
}

// Toggle flips the completed flag of the task at index.
// Out of range indexes are ignored.
func (list *List) Toggle(index int) bool {
	return list.mutateAt(at(index), toggleAt)
}

// Delete removes the task at index, shifting later tasks down.
// Out of range indexes are ignored.
func (list *List) Delete(index int) bool {
	return list.mutateAt(at(index), deleteAt)
}

// ToggleByID flips the completed flag of the task with id.
func (list *List) ToggleByID(id string) bool {
	return list.mutateAt(indexOf(id), toggleAt)
}

// DeleteByID removes the task with id.
func (list *List) DeleteByID(id string) bool {
	return list.mutateAt(indexOf(id), deleteAt)
}

func (list *List) mutateAt(locate func([]Task) int, apply func([]Task, int) []Task) bool {
	return list.mutate(func(tasks []Task) ([]Task, bool) {
		index := locate(tasks)
		if index < 0 || index >= len(tasks) {
			return tasks, false
		}
		return apply(tasks, index), true
	})
}

// mutate applies change under the lock, persists and notifies listeners.
func (list *List) mutate(change func([]Task) ([]Task, bool)) bool {
	list.mu.Lock()
	updated, changed := change(list.tasks)
	if !changed {
		list.mu.Unlock()
		return false
	}
	list.tasks = updated
	snapshot := append([]Task(nil), updated...)
	listeners := append([](func([]Task))(nil), list.listeners...)
	list.persistLocked()
	list.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
	return true
}

func (list *List) persistLocked() {
	if err := encode(list.store, list.tasks); err != nil {
		list.logger.Error().Err(err).Int("tasks", len(list.tasks)).Msg("persist tasks")
	}
}

func decode(store Store) ([]Task, error) {
	raw, ok := store.Get(StorageKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var loaded []Task
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return nil, fmt.Errorf("parse tasks json: %w", err)
	}

	valid := loaded[:0]
	for _, task := range loaded {
		task.Text = strings.TrimSpace(task.Text)
		if task.Text == "" {
			continue
		}
		valid = append(valid, task)
	}
	return valid, nil
}

func encode(store Store, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	serialized, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks json: %w", err)
	}
	if err := store.Set(StorageKey, string(serialized)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

func at(index int) func([]Task) int {
	return func([]Task) int {
		return index
	}
}

func indexOf(id string) func([]Task) int {
	return func(tasks []Task) int {
		for index, task := range tasks {
			if task.ID == id {
				return index
			}
		}
		return -1
	}
}

func toggleAt(tasks []Task, index int) []Task {
	tasks[index].Completed = !tasks[index].Completed
	return tasks
}

func deleteAt(tasks []Task, index int) []Task {
	updated := make([]Task, 0, len(tasks)-1)
	updated = append(updated, tasks[:index]...)
	return append(updated, tasks[index+1:]...)
}
