package core

// DefaultNotes is the seed collection used on first run.
func DefaultNotes() []Note {
	return []Note{
		{
			Title:   "Welcome to QuickNotes",
			Content: "Create a note with add, edit it by position and remove it with rm. A removed note can be restored with undo.",
			Tag:     "Instructions",
		},
		{
			Title:   "Shopping list",
			Content: "Milk, bread, eggs, coffee",
			Tag:     "Personal",
		},
		{
			Title:   "Work tasks",
			Content: "Prepare the weekly report and review open pull requests",
			Tag:     "Work",
		},
	}
}

// DefaultTags is the seed tag collection used on first run.
func DefaultTags() []string {
	return []string{"Work", "Personal", "Ideas"}
}
