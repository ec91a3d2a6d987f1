package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes_e2e/application/pages"
)

// openDashboard signs in and shows the notes list
func openDashboard(t *testing.T, e *Env, ctx context.Context) *pages.DashboardPage {
	t.Helper()
	dashboard := e.Dashboard(e.AuthenticatedTab(t, ctx))
	require.NoError(t, dashboard.Open(ctx))
	require.True(t, dashboard.IsLoggedIn(ctx), "dashboard did not load signed in")
	return dashboard
}

// requireWritable skips scenarios that delete when destructive clicks are blocked
func requireWritable(t *testing.T, e *Env) {
	t.Helper()
	if e.Config.ReadOnly {
		t.Skip("deletes are blocked with NOTES_E2E_READ_ONLY=true")
	}
}

// ensureNote makes sure the list has at least one note and returns the count
func ensureNote(t *testing.T, ctx context.Context, dashboard *pages.DashboardPage) int {
	t.Helper()
	if n := dashboard.NotesCount(ctx); n > 0 {
		return n
	}
	title := UniqueTitle("Seed note")
	require.NoError(t, dashboard.CreateNote(ctx, title, "seeded for a scenario"))
	require.True(t, dashboard.NoteExists(ctx, title), "seed note %q not listed", title)
	return dashboard.NotesCount(ctx)
}

// countAfter waits for the list to shrink below before, then returns the count.
// A list that never shrinks is reported as is.
func countAfter(ctx context.Context, dashboard *pages.DashboardPage, before int) int {
	deadline := time.Now().Add(settle)
	n := dashboard.NotesCount(ctx)
	for n >= before && time.Now().Before(deadline) && ctx.Err() == nil {
		time.Sleep(250 * time.Millisecond)
		n = dashboard.NotesCount(ctx)
	}
	return n
}

func TestNotesSmoke_3_1_CreateNote(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	dashboard := openDashboard(t, e, ctx)

	title := UniqueTitle("Test Note")
	require.NoError(t, dashboard.CreateNote(ctx, title, "This is a test note created for smoke testing."))

	assert.True(t, dashboard.NoteExists(ctx, title), "note %q not listed", title)
	assert.Empty(t, dashboard.ErrorMessage(ctx))
}

func TestNotesSmoke_3_2_EditNote(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	dashboard := openDashboard(t, e, ctx)
	ensureNote(t, ctx, dashboard)

	updated := UniqueTitle("Updated Note")
	require.NoError(t, dashboard.UpdateNote(ctx, updated, "Updated content"))

	assert.True(t, dashboard.NoteExists(ctx, updated), "edited note %q not listed", updated)
}

func TestNotesSmoke_3_3_DeleteNote(t *testing.T) {
	e := SetupEnv(t)
	requireWritable(t, e)
	ctx := e.Context(t)
	dashboard := openDashboard(t, e, ctx)
	before := ensureNote(t, ctx, dashboard)

	deleted, err := dashboard.DeleteNote(ctx)
	require.NoError(t, err)
	require.True(t, deleted, "no note offered a delete button")

	assert.LessOrEqual(t, countAfter(ctx, dashboard, before), before)
}

func TestNotesSmoke_3_4_CreateNoteWithEmptyContent(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	dashboard := openDashboard(t, e, ctx)

	title := UniqueTitle("Note with Empty Content")
	require.NoError(t, dashboard.CreateNote(ctx, title, ""))

	// Either the note is accepted or the form says what is missing
	if !dashboard.NoteExists(ctx, title) {
		assert.True(t, dashboard.IsDialogOpen(ctx) || dashboard.ErrorMessage(ctx) != "",
			"note %q neither listed nor rejected", title)
	}
}
