package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Todo is one entry in a todo list.
type Todo struct {
	ID        int    `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// TodoStore is an owned, session-scoped todo list. It replaces a
// process-global list so two sessions never see each other's tasks.
type TodoStore struct {
	mu     sync.Mutex
	nextID int
	todos  []Todo
}

// NewTodoStore creates an empty todo store.
func NewTodoStore() *TodoStore {
	return &TodoStore{nextID: 1}
}

// Add appends a new task and returns its id.
func (s *TodoStore) Add(task string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.todos = append(s.todos, Todo{ID: id, Task: task})
	return id
}

// List returns a copy of all todos.
func (s *TodoStore) List() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Todo(nil), s.todos...)
}

// Complete marks a todo as done. Returns false if the id is unknown.
func (s *TodoStore) Complete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Completed = true
			return true
		}
	}
	return false
}

// Get returns the todo with the given id.
func (s *TodoStore) Get(id int) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

// Delete removes a todo. Returns false if the id is unknown.
func (s *TodoStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return true
		}
	}
	return false
}

// TodoTools returns the todo management tools bound to the given store.
// Deleting a todo asks for confirmation through an interrupt before the
// effect is applied.
func TodoTools(store *TodoStore) []Tool {
	taskParams := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task": map[string]any{
				"type":        "string",
				"description": "The task to add to the todo list",
			},
		},
		"required": []string{"task"},
	}
	idParams := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"todo_id": map[string]any{
				"type":        "integer",
				"description": "The ID of the todo",
			},
		},
		"required": []string{"todo_id"},
	}

	return []Tool{
		&FuncTool{
			ToolName:        "add_todo",
			ToolDescription: "Add a new task to the todo list.",
			ToolParameters:  taskParams,
			Fn: func(ctx context.Context, arguments string) (string, error) {
				var args struct {
					Task string `json:"task"`
				}
				if err := json.Unmarshal([]byte(arguments), &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if strings.TrimSpace(args.Task) == "" {
					return "", fmt.Errorf("task must not be empty")
				}
				id := store.Add(args.Task)
				return fmt.Sprintf("Added todo #%d: %s", id, args.Task), nil
			},
		},
		&FuncTool{
			ToolName:        "list_todos",
			ToolDescription: "List all tasks in the todo list.",
			Fn: func(ctx context.Context, arguments string) (string, error) {
				todos := store.List()
				if len(todos) == 0 {
					return "The todo list is empty.", nil
				}
				var sb strings.Builder
				sb.WriteString("Here's your todo list:\n")
				for _, t := range todos {
					status := "[ ]"
					if t.Completed {
						status = "[x]"
					}
					fmt.Fprintf(&sb, "%s %d. %s\n", status, t.ID, t.Task)
				}
				return sb.String(), nil
			},
		},
		&FuncTool{
			ToolName:        "complete_todo",
			ToolDescription: "Mark a task as completed.",
			ToolParameters:  idParams,
			Fn: func(ctx context.Context, arguments string) (string, error) {
				var args struct {
					TodoID int `json:"todo_id"`
				}
				if err := json.Unmarshal([]byte(arguments), &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if !store.Complete(args.TodoID) {
					return fmt.Sprintf("Todo with ID %d not found.", args.TodoID), nil
				}
				return fmt.Sprintf("Marked todo #%d as completed.", args.TodoID), nil
			},
		},
		&FuncTool{
			ToolName:        "delete_todo",
			ToolDescription: "Remove a task from the todo list. Asks the user for confirmation first.",
			ToolParameters:  idParams,
			Fn: func(ctx context.Context, arguments string) (string, error) {
				var args struct {
					TodoID int `json:"todo_id"`
				}
				if err := json.Unmarshal([]byte(arguments), &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}

				todo, ok := store.Get(args.TodoID)
				if !ok {
					return fmt.Sprintf("Todo with ID %d not found.", args.TodoID), nil
				}

				answer, err := Confirm(ctx, fmt.Sprintf(
					"Are you sure you want to delete todo #%d: %q? (yes/no)", todo.ID, todo.Task))
				if err != nil {
					return "", err
				}

				if !Affirmative(answer) {
					return fmt.Sprintf("Deletion of todo #%d cancelled.", todo.ID), nil
				}
				if !store.Delete(todo.ID) {
					return fmt.Sprintf("Todo with ID %d not found.", todo.ID), nil
				}
				return fmt.Sprintf("Deleted todo #%d.", todo.ID), nil
			},
		},
	}
}
