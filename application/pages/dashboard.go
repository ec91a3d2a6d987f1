package pages

import (
	"context"
	"strings"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

// noteCards are the ways a note card is found in the list. The broad
// "anything with note in its test id" selectors also hit the add button and
// the empty state, so they are not used for counting.
var noteCards = []entities.LocatorCandidate{
	entities.ByAttr(`[data-testid="note-card"]`),
	entities.ByStructure(`[class*="note-item"]`),
	entities.ByStructure(`[class*="note-card"]`),
}

// DashboardPage is the notes list with its editor and filters
type DashboardPage struct {
	Base

	addNote        entities.LogicalTarget
	noteItem       entities.LogicalTarget
	noteTitle      entities.LogicalTarget
	noteContent    entities.LogicalTarget
	saveNote       entities.LogicalTarget
	editNote       entities.LogicalTarget
	deleteNote     entities.LogicalTarget
	confirmDelete  entities.LogicalTarget
	cancelDelete   entities.LogicalTarget
	toggleNote     entities.LogicalTarget
	search         entities.LogicalTarget
	searchButton   entities.LogicalTarget
	categorySelect entities.LogicalTarget
	userProfile    entities.LogicalTarget
	logout         entities.LogicalTarget
	dialog         entities.LogicalTarget
	success        entities.LogicalTarget
	failure        entities.LogicalTarget
}

// NewDashboardPage creates the dashboard under baseURL
func NewDashboardPage(p *interaction.Primitives, baseURL string) *DashboardPage {
	return &DashboardPage{
		Base: NewBase(p, baseURL, PathDashboard),

		addNote: entities.MustTarget("AddNoteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="add-new-note"]`),
			entities.ByAttr(`[data-testid="add-note"]`),
			entities.ByRole("button", "Add Note"),
			entities.ByRole("button", "Create"),
			entities.ByRole("button", "New"),
			entities.ByStructure(`button[class*="add"]`),
		}),
		noteItem: entities.MustTarget("NoteCard", noteCards, entities.Transient()),
		noteTitle: entities.MustTarget("NoteTitleInput", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-title"]`),
			entities.ByAttr(`input[name="title"]`),
			entities.ByAttr(`input[placeholder*="title" i]`),
		}, entities.Transient()),
		noteContent: entities.MustTarget("NoteContentInput", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-description"]`),
			entities.ByAttr(`textarea[name="description"]`),
			entities.ByAttr(`textarea[placeholder*="content" i]`),
			entities.ByAttr(`textarea[placeholder*="description" i]`),
		}, entities.Transient()),
		saveNote: entities.MustTarget("SaveNoteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-submit"]`),
			entities.ByRole("button", "Save"),
			entities.ByRole("button", "Create"),
			entities.ByRole("button", "Update"),
		}, entities.Transient()),
		editNote: entities.MustTarget("EditNoteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-edit"]`),
			entities.ByRole("button", "Edit"),
			entities.ByStructure(`button[class*="edit"]`),
		}, entities.Transient()),
		deleteNote: entities.MustTarget("DeleteNoteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-delete"]`),
			entities.ByRole("button", "Delete"),
			entities.ByStructure(`button[class*="delete"]`),
		}, entities.Transient()),
		confirmDelete: entities.MustTarget("ConfirmDeleteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-delete-confirm"]`),
			entities.ByRole("button", "Confirm"),
			entities.ByRole("button", "Yes"),
			entities.ByStructure(`[role="dialog"] button`).HasText("Delete"),
			entities.ByStructure(`[class*="modal"] button`).HasText("Delete"),
		}, entities.Transient()),
		cancelDelete: entities.MustTarget("CancelDeleteButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="note-delete-cancel"]`),
			entities.ByRole("button", "Cancel"),
			// "No" is a substring of "Add Note"
			entities.ByRole("button", "No").ExactMatch(),
		}, entities.Transient()),
		toggleNote: entities.MustTarget("ToggleNoteSwitch", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="toggle-note-switch"]`),
			entities.ByAttr(`[data-testid*="toggle"]`),
			entities.ByStructure(`input[type="checkbox"]`),
		}, entities.Transient()),
		search: entities.MustTarget("SearchInput", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="search-input"]`),
			entities.ByAttr(`input[placeholder*="search" i]`),
			entities.ByRole("searchbox", ""),
		}),
		searchButton: entities.MustTarget("SearchButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="search-btn"]`),
			entities.ByRole("button", "Search"),
		}),
		categorySelect: entities.MustTarget("CategoryFilter", []entities.LocatorCandidate{
			entities.ByAttr(`select[data-testid*="category"]`),
			entities.ByStructure(`select[class*="filter"]`),
		}),
		userProfile: entities.MustTarget("UserProfile", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="profile"]`),
			entities.ByAttr(`[data-testid*="profile"]`),
			entities.ByRole("link", "Profile"),
			entities.ByRole("button", "Profile"),
			entities.ByStructure(`[class*="user"]`),
		}),
		logout: entities.MustTarget("LogoutButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="logout"]`),
			entities.ByRole("button", "Logout"),
			entities.ByRole("link", "Logout"),
		}),
		dialog: entities.MustTarget("Dialog", []entities.LocatorCandidate{
			entities.ByAttr(`[role="dialog"]`),
			entities.ByStructure(`[class*="modal"]`),
			entities.ByStructure(`[class*="dialog"]`),
		}, entities.Transient()),
		success: entities.MustTarget("SuccessMessage", []entities.LocatorCandidate{
			entities.ByStructure(`[class*="alert-success"]`),
			entities.ByStructure(`[class*="success"]`),
			entities.ByAttr(`[role="status"]`),
		}, entities.Transient()),
		failure: entities.MustTarget("ErrorMessage", []entities.LocatorCandidate{
			entities.ByStructure(`[class*="alert-danger"]`),
			entities.ByStructure(`[class*="error"]`),
			entities.ByAttr(`[role="alert"]`),
		}, entities.Transient()),
	}
}

// Targets returns the page's target table in display order. Per-note
// controls and the editor exist only when there are notes or the editor is
// open, so they are transient.
func (d *DashboardPage) Targets() []entities.LogicalTarget {
	return []entities.LogicalTarget{
		d.addNote, d.noteItem, d.search, d.searchButton, d.categorySelect,
		d.userProfile, d.logout,
		d.noteTitle, d.noteContent, d.saveNote, d.editNote, d.deleteNote,
		d.confirmDelete, d.cancelDelete, d.toggleNote,
		d.dialog, d.success, d.failure,
	}
}

// IsLoggedIn reports whether the browser shows the dashboard within the action
// budget. The URL alone is not enough: a signed-out visit renders /dashboard
// briefly before redirecting to the login form.
func (d *DashboardPage) IsLoggedIn(ctx context.Context) bool {
	if d.WaitUntilAt(ctx) != nil {
		return false
	}
	return d.IsVisible(ctx, d.addNote, interaction.WithTimeout(d.Timeouts().Action)) && d.IsAt(ctx)
}

func (d *DashboardPage) ClickAddNote(ctx context.Context) error {
	return d.Click(ctx, d.addNote)
}

func (d *DashboardPage) EnterNoteTitle(ctx context.Context, title string) error {
	return d.Fill(ctx, d.noteTitle, title)
}

func (d *DashboardPage) EnterNoteContent(ctx context.Context, content string) error {
	return d.Fill(ctx, d.noteContent, content)
}

func (d *DashboardPage) ClickSaveNote(ctx context.Context) error {
	return d.Click(ctx, d.saveNote)
}

// ClickEditNote opens the editor of the first note
func (d *DashboardPage) ClickEditNote(ctx context.Context) error {
	return d.Click(ctx, d.editNote)
}

func (d *DashboardPage) ClearNoteTitle(ctx context.Context) error {
	return d.Clear(ctx, d.noteTitle)
}

// CreateNote opens the editor, fills it and saves. Empty content leaves the
// description untouched.
func (d *DashboardPage) CreateNote(ctx context.Context, title, content string) error {
	steps := []step{
		{"click add note", click(d.Primitives, d.addNote)},
		{"enter title", fill(d.Primitives, d.noteTitle, title)},
	}
	if content != "" {
		steps = append(steps, step{"enter content", fill(d.Primitives, d.noteContent, content)})
	}
	steps = append(steps, step{"click save", click(d.Primitives, d.saveNote)})
	return d.run(ctx, "create note", steps...)
}

// UpdateNote opens the editor of the current note and replaces the fields
// given. An empty argument leaves that field as it is.
func (d *DashboardPage) UpdateNote(ctx context.Context, title, content string) error {
	steps := []step{
		{"click edit", click(d.Primitives, d.editNote)},
	}
	if title != "" {
		steps = append(steps, step{"enter title", fill(d.Primitives, d.noteTitle, title)})
	}
	if content != "" {
		steps = append(steps, step{"enter content", fill(d.Primitives, d.noteContent, content)})
	}
	steps = append(steps, step{"click save", click(d.Primitives, d.saveNote)})
	return d.run(ctx, "update note", steps...)
}

// DeleteNote deletes the first note offering a delete button and confirms the
// dialog. It reports false without touching the page when no note can be deleted.
func (d *DashboardPage) DeleteNote(ctx context.Context) (bool, error) {
	if !d.IsVisible(ctx, d.deleteNote) {
		return false, nil
	}
	err := d.run(ctx, "delete note",
		step{"click delete", click(d.Primitives, d.deleteNote)},
		step{"confirm delete", click(d.Primitives, d.confirmDelete)},
	)
	return err == nil, err
}

// CancelDelete opens the delete dialog and dismisses it
func (d *DashboardPage) CancelDelete(ctx context.Context) (bool, error) {
	if !d.IsVisible(ctx, d.deleteNote) {
		return false, nil
	}
	err := d.run(ctx, "cancel delete",
		step{"click delete", click(d.Primitives, d.deleteNote)},
		step{"click cancel", click(d.Primitives, d.cancelDelete)},
	)
	return err == nil, err
}

// ToggleNote flips the completed switch of the first note. It reports false
// when no switch is shown.
func (d *DashboardPage) ToggleNote(ctx context.Context) (bool, error) {
	if !d.IsVisible(ctx, d.toggleNote) {
		return false, nil
	}
	if err := d.Click(ctx, d.toggleNote); err != nil {
		return false, err
	}
	return true, nil
}

// NotesCount returns the number of note cards in the list
func (d *DashboardPage) NotesCount(ctx context.Context) int {
	return d.Count(ctx, d.noteItem)
}

// VisibleNotesCount returns the number of note cards currently shown
func (d *DashboardPage) VisibleNotesCount(ctx context.Context) int {
	return d.CountVisible(ctx, d.noteItem)
}

// NoteTitled is the card showing title
func (d *DashboardPage) NoteTitled(title string) entities.LogicalTarget {
	candidates := make([]entities.LocatorCandidate, 0, len(noteCards)+1)
	for _, c := range noteCards {
		candidates = append(candidates, c.HasText(title))
	}
	candidates = append(candidates, entities.ByText(title))
	return entities.MustTarget("Note("+title+")", candidates)
}

// NoteExists reports whether a card with title is shown
func (d *DashboardPage) NoteExists(ctx context.Context, title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	return d.IsVisible(ctx, d.NoteTitled(title), interaction.WithTimeout(d.Timeouts().Action))
}

// ClickNoteByTitle opens the card showing title
func (d *DashboardPage) ClickNoteByTitle(ctx context.Context, title string) error {
	return d.Click(ctx, d.NoteTitled(title))
}

// SearchNotes types query into the search box and presses the search button when there is one
func (d *DashboardPage) SearchNotes(ctx context.Context, query string) error {
	return d.run(ctx, "search notes",
		step{"enter query", fill(d.Primitives, d.search, query)},
		step{"submit search", d.submitSearch},
	)
}

// ClearSearch empties the search box and refreshes the list
func (d *DashboardPage) ClearSearch(ctx context.Context) error {
	return d.SearchNotes(ctx, "")
}

func (d *DashboardPage) submitSearch(ctx context.Context) error {
	if !d.IsVisible(ctx, d.searchButton) {
		return nil
	}
	return d.Click(ctx, d.searchButton)
}

// categoryButton is the filter tab for category
func categoryButton(category string) entities.LogicalTarget {
	return entities.MustTarget("Category("+category+")", []entities.LocatorCandidate{
		entities.ByAttr(`[data-testid="category-` + strings.ToLower(category) + `"]`),
		entities.ByRole("button", category).ExactMatch(),
	})
}

// FilterByCategory narrows the list to category with the filter select or
// the category tabs. It reports false when neither is shown.
func (d *DashboardPage) FilterByCategory(ctx context.Context, category string) (bool, error) {
	if d.IsVisible(ctx, d.categorySelect) {
		return true, d.SelectOption(ctx, d.categorySelect, category)
	}
	tab := categoryButton(category)
	if d.IsVisible(ctx, tab) {
		return true, d.Click(ctx, tab)
	}
	return false, nil
}

// ClearAllFilters empties the search and goes back to all categories
func (d *DashboardPage) ClearAllFilters(ctx context.Context) error {
	if err := d.ClearSearch(ctx); err != nil {
		return err
	}
	_, err := d.FilterByCategory(ctx, "All")
	return err
}

// SuccessMessage returns the success alert text, or ""
func (d *DashboardPage) SuccessMessage(ctx context.Context) string {
	text, _ := d.ReadText(ctx, d.success, interaction.WithTimeout(d.Timeouts().Action))
	return text
}

// ErrorMessage returns the error alert text, or ""
func (d *DashboardPage) ErrorMessage(ctx context.Context) string {
	text, _ := d.ReadText(ctx, d.failure, interaction.WithTimeout(d.Timeouts().Action))
	return text
}

// IsDialogOpen reports whether a modal is shown
func (d *DashboardPage) IsDialogOpen(ctx context.Context) bool {
	return d.IsVisible(ctx, d.dialog)
}

func (d *DashboardPage) ClickUserProfile(ctx context.Context) error {
	return d.Click(ctx, d.userProfile)
}

func (d *DashboardPage) Logout(ctx context.Context) error {
	return d.Click(ctx, d.logout)
}
