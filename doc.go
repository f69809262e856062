// Package quicknotes is the composition root for QuickNotes.
//
// It connects the note domain (pkg/core) with a storage adapter (pkg/adapters)
// using the hexagonal layout: the Repository holds the session's notes and
// tags in memory and writes every change through a Store port.
//
// Adapters:
//
//   - fs (default): one JSON or YAML file per slot, atomic writes, optional
//     git history, fsnotify-based change events.
//   - sqlite: one row per slot in a single database file.
//
// Usage:
//
//	repo, err := quicknotes.New(ctx, "~/.quicknotes",
//		quicknotes.WithFormat("yaml"),
//		quicknotes.WithLogger(logger),
//	)
//
//	pos, err := repo.Add(ctx, quicknotes.Note{Title: "Call mom", Content: "Sunday", Tag: "Personal"})
//	hits := repo.Search("mom")
package quicknotes
