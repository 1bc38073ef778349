package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"lifemanage/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)

	gdb, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	if err := gdb.AutoMigrate(
		&store.UserSettings{},
		&store.Project{},
		&store.Conversation{},
		&store.Task{},
		&store.Note{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return store.New(gdb)
}

func mustProject(t *testing.T, s *store.Store, userID uint64, in store.CreateProjectInput) store.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateProjectRejectsUnknownEnumValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, 1, store.CreateProjectInput{Title: "x", Category: "hobby"})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("bad category: got %v, want ErrInvalid", err)
	}

	_, err = s.CreateProject(ctx, 1, store.CreateProjectInput{Title: "x", Category: store.CategoryWork, Status: "paused"})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("bad status: got %v, want ErrInvalid", err)
	}

	_, err = s.CreateProject(ctx, 1, store.CreateProjectInput{Category: store.CategoryWork})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("missing title: got %v, want ErrInvalid", err)
	}
}

func TestCreateProjectDefaultsAndDeduplicatesTags(t *testing.T) {
	s := newTestStore(t)

	p := mustProject(t, s, 1, store.CreateProjectInput{
		Title:    "Side work",
		Category: store.CategoryPersonal,
		Tags:     []string{"go", "planning", "go", ""},
	})

	if p.Status != store.ProjectActive {
		t.Fatalf("default status: got %q", p.Status)
	}
	if want := []string{"go", "planning"}; !reflect.DeepEqual(p.Tags, want) {
		t.Fatalf("tags: got %v, want %v", p.Tags, want)
	}
}

func TestUpdateProjectPatchesTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustProject(t, s, 1, store.CreateProjectInput{
		Title:    "Tagged",
		Category: store.CategoryWork,
		Tags:     []string{"old"},
	})

	tags := []string{"go", "api", "go", ""}
	got, err := s.UpdateProject(ctx, 1, p.ID, store.ProjectPatch{Tags: &tags})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if want := []string{"go", "api"}; !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("patched tags: got %v, want %v", got.Tags, want)
	}

	// Round-trip through a fresh read, not just the update's return value.
	got, err = s.GetProject(ctx, 1, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := []string{"go", "api"}; !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("reread tags: got %v, want %v", got.Tags, want)
	}

	// Clearing to an empty set sticks as well.
	empty := []string{}
	got, err = s.UpdateProject(ctx, 1, p.ID, store.ProjectPatch{Tags: &empty})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Fatalf("cleared tags: got %v", got.Tags)
	}
}

func TestListProjectsScopesByOwnerAndSortsByPriority(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	low := mustProject(t, s, 1, store.CreateProjectInput{Title: "low", Category: store.CategoryWork, Priority: 1})
	high := mustProject(t, s, 1, store.CreateProjectInput{Title: "high", Category: store.CategoryWork, Priority: 5})
	mustProject(t, s, 2, store.CreateProjectInput{Title: "other user", Category: store.CategoryWork, Priority: 9})

	got, err := s.ListProjects(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("owner scoping: got %d projects", len(got))
	}
	if got[0].ID != high.ID || got[1].ID != low.ID {
		t.Fatalf("sort order: got %d,%d want %d,%d", got[0].ID, got[1].ID, high.ID, low.ID)
	}

	// Foreign rows are invisible through Get too.
	if _, err := s.GetProject(ctx, 2, low.ID); err != store.ErrNotFound {
		t.Fatalf("foreign get: got %v, want ErrNotFound", err)
	}
}

func TestEmptyPatchTouchesOnlyUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	desc := "original"
	p := mustProject(t, s, 1, store.CreateProjectInput{
		Title:       "stable",
		Description: &desc,
		Category:    store.CategoryWork,
		Tags:        []string{"a", "b"},
		Priority:    3,
	})

	time.Sleep(50 * time.Millisecond)
	got, err := s.UpdateProject(ctx, 1, p.ID, store.ProjectPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}

	if got.Title != p.Title || got.Category != p.Category || got.Status != p.Status ||
		got.Priority != p.Priority || !reflect.DeepEqual(got.Tags, p.Tags) ||
		got.Description == nil || *got.Description != desc {
		t.Fatalf("empty patch mutated fields: %+v vs %+v", got, p)
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("updated_at not refreshed: %v vs %v", got.UpdatedAt, p.UpdatedAt)
	}
}

func TestTaskRequiresExistingOwnedProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: 42, Title: "orphan"})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("missing project: got %v, want ErrInvalid", err)
	}

	foreign := mustProject(t, s, 2, store.CreateProjectInput{Title: "theirs", Category: store.CategoryWork})
	_, err = s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: foreign.ID, Title: "trespass"})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("foreign project: got %v, want ErrInvalid", err)
	}

	mine := mustProject(t, s, 1, store.CreateProjectInput{Title: "mine", Category: store.CategoryWork})
	task, err := s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: mine.ID, Title: "ok"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != store.TaskPending {
		t.Fatalf("default status: got %q", task.Status)
	}

	_, err = s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: mine.ID, Title: "bad", Status: "blocked"})
	if err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("bad status: got %v, want ErrInvalid", err)
	}
}

func TestListTasksSortsDueDateAscendingNullsLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustProject(t, s, 1, store.CreateProjectInput{Title: "p", Category: store.CategoryWork})

	later := time.Now().Add(48 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)

	undated, _ := s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: p.ID, Title: "undated"})
	t2, _ := s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: p.ID, Title: "later", DueDate: &later})
	t1, _ := s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: p.ID, Title: "sooner", DueDate: &sooner})

	got, err := s.ListTasks(ctx, 1, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d tasks", len(got))
	}
	if got[0].ID != t1.ID || got[1].ID != t2.ID || got[2].ID != undated.ID {
		t.Fatalf("sort: got %d,%d,%d", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSecondaryProjectFilterNarrowsStrictly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p1 := mustProject(t, s, 1, store.CreateProjectInput{Title: "p1", Category: store.CategoryWork})
	p2 := mustProject(t, s, 1, store.CreateProjectInput{Title: "p2", Category: store.CategoryWork})

	_, _ = s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: p1.ID, Title: "a"})
	_, _ = s.CreateTask(ctx, 1, store.CreateTaskInput{ProjectID: p2.ID, Title: "b"})

	got, err := s.ListTasks(ctx, 1, &p1.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ProjectID != p1.ID {
		t.Fatalf("filter: got %+v", got)
	}

	// Empty result is an empty slice, not nil.
	none, err := s.ListConversations(ctx, 1, &p2.ID, false)
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("empty list: got %#v", none)
	}
}

func TestDeleteAbsentRowFailsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustProject(t, s, 1, store.CreateProjectInput{Title: "p", Category: store.CategoryWork})

	if err := s.DeleteProject(ctx, 1, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteProject(ctx, 1, p.ID); err != store.ErrNotFound {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	// Same policy for the other entities.
	if err := s.DeleteTask(ctx, 1, 99); err != store.ErrNotFound {
		t.Fatalf("task delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteNote(ctx, 1, 99); err != store.ErrNotFound {
		t.Fatalf("note delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteConversation(ctx, 1, 99); err != store.ErrNotFound {
		t.Fatalf("conversation delete: got %v, want ErrNotFound", err)
	}
}

func TestNotesOrderNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustProject(t, s, 1, store.CreateProjectInput{Title: "p", Category: store.CategoryPersonal})

	first, err := s.CreateNote(ctx, 1, p.ID, "first")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	second, err := s.CreateNote(ctx, 1, p.ID, "second")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := s.ListNotes(ctx, 1, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("order: got %+v", got)
	}
}

func TestConversationProjectAssignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateConversation(ctx, 1, store.CreateConversationInput{
		Title:    "chat",
		Content:  []byte(`{"id":"abc","mapping":{}}`),
		SourceID: "abc",
	})
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if c.ProjectID != nil {
		t.Fatalf("new conversation should be unassigned")
	}

	p := mustProject(t, s, 1, store.CreateProjectInput{Title: "p", Category: store.CategoryWork})

	pid := p.ID
	pidPtr := &pid
	got, err := s.UpdateConversation(ctx, 1, c.ID, store.ConversationPatch{ProjectID: &pidPtr})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.ProjectID == nil || *got.ProjectID != p.ID {
		t.Fatalf("assignment not persisted: %+v", got)
	}

	// Assigning to a project that does not exist fails.
	missing := uint64(999)
	missingPtr := &missing
	if _, err := s.UpdateConversation(ctx, 1, c.ID, store.ConversationPatch{ProjectID: &missingPtr}); err != store.ErrNotFound {
		t.Fatalf("missing project: got %v, want ErrNotFound", err)
	}

	// Clearing works via an explicit null.
	var none *uint64
	got, err = s.UpdateConversation(ctx, 1, c.ID, store.ConversationPatch{ProjectID: &none})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got.ProjectID != nil {
		t.Fatalf("clear not persisted: %+v", got)
	}
}

func TestSettingsKeyLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSettings(ctx, 1); err != store.ErrNotFound {
		t.Fatalf("no row yet: got %v", err)
	}

	if _, err := s.SaveOpenAIKey(ctx, 1, "plainly-wrong"); err == nil || !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("bad prefix: got %v, want ErrInvalid", err)
	}

	us, err := s.SaveOpenAIKey(ctx, 1, "sk-first")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !us.HasOpenAIKey || us.OpenAIKey == nil || *us.OpenAIKey != "sk-first" {
		t.Fatalf("first save: %+v", us)
	}

	// Re-save updates the same row.
	us2, err := s.SaveOpenAIKey(ctx, 1, "sk-second")
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if us2.ID != us.ID || *us2.OpenAIKey != "sk-second" {
		t.Fatalf("re-save: %+v", us2)
	}

	if err := s.ClearOpenAIKey(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	us3, err := s.GetSettings(ctx, 1)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if us3.HasOpenAIKey || us3.OpenAIKey != nil {
		t.Fatalf("clear left key behind: %+v", us3)
	}
}
