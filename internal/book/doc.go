// package book holds the photobook state: the cover/session machine, the catalog and the pager over it.
//
// Session transitions and pagination are pure functions; [Book] composes them with a
// [services.Storage] collaborator and guards everything with a mutex so the TUI, the HTTP
// server and batch tasks can share one instance.
package book
